package engagement

import (
	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Subscribe makes subscriberID a subscriber of targetID. This is a follower-graph
// edge only; it carries no billing state.
func (r *Repository) Subscribe(subscriberID, targetID uint) (bool, error) {
	if subscriberID == targetID {
		return false, database.Invalidf("users cannot subscribe to themselves")
	}
	_, created, err := r.subscriptions.Add(subscriberID, targetID)
	return created, err
}

func (r *Repository) Unsubscribe(subscriberID, targetID uint) (bool, error) {
	return r.subscriptions.Remove(subscriberID, targetID)
}

// ListSubscriptions returns the users subscriberID is subscribed to.
func (r *Repository) ListSubscriptions(subscriberID uint) ([]entities.User, error) {
	return r.subscriptions.ListObjects(subscriberID)
}

// ListSubscribers returns the users subscribed to targetID.
func (r *Repository) ListSubscribers(targetID uint) ([]entities.User, error) {
	return r.subscriptions.ListSubjects(targetID)
}

func (r *Repository) IsSubscribed(subscriberID, targetID uint) (bool, error) {
	return r.subscriptions.Has(subscriberID, targetID)
}
