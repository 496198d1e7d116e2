package engagement

import "gorm.io/gorm"

// LikeRecording records a like and bumps the recording's LikeCount when the like is new.
func (r *Repository) LikeRecording(userID, recordingID uint) (bool, error) {
	var created bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		_, created, err = r.recordingLikes.WithDB(tx).Add(userID, recordingID)
		if err != nil || !created {
			return err
		}
		return adjustCounter(tx, "audio_recordings", "like_count", recordingID, 1)
	})
	return created, err
}

// UnlikeRecording removes a like and lowers the recording's LikeCount when one was removed.
func (r *Repository) UnlikeRecording(userID, recordingID uint) (bool, error) {
	var removed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = r.recordingLikes.WithDB(tx).Remove(userID, recordingID)
		if err != nil || !removed {
			return err
		}
		return adjustCounter(tx, "audio_recordings", "like_count", recordingID, -1)
	})
	return removed, err
}

func (r *Repository) IsRecordingLiked(userID, recordingID uint) (bool, error) {
	return r.recordingLikes.Has(userID, recordingID)
}

func (r *Repository) RecordingLikeCount(recordingID uint) (int64, error) {
	return r.recordingLikes.Count(recordingID)
}
