// Package edges provides the toggle store shared by every relationship kind
// (likes, follows, favorites, library membership, subscriptions).
//
// A Store is instantiated once per edge kind and is parameterized by the edge
// row type and the two entity types it joins:
//
//	likes := edges.NewStore[entities.StoryLike, entities.User, entities.Story](db)
//	edge, created, err := likes.Add(userID, storyID)
//	n, err := likes.Count(storyID)
//
// Each edge kind has a compound unique index over (subject, object), so Add is
// idempotent: a second call returns the existing edge with created == false.
package edges

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/storyshelf/internal/database"
)

// Edge is implemented by the join-table entities.
type Edge interface {
	TableName() string
	EdgeColumns() (subject, object string)
}

// Tabler is implemented by the entities an edge can point at.
type Tabler interface {
	TableName() string
}

// EdgePtr constrains the pointer form of an edge row so the store can build rows.
type EdgePtr[E any] interface {
	*E
	Edge
	Connect(subjectID, objectID uint)
}

// Store implements the toggle access pattern for one edge kind.
type Store[E any, S Tabler, O Tabler, P EdgePtr[E]] struct {
	db            *gorm.DB
	table         string
	subjectColumn string
	objectColumn  string
	subjectTable  string
	objectTable   string
}

// NewStore creates a store for edges of type E joining subjects S to objects O.
func NewStore[E any, S Tabler, O Tabler, P EdgePtr[E]](db *gorm.DB) *Store[E, S, O, P] {
	edge := P(new(E))
	var subject S
	var object O
	subjectColumn, objectColumn := edge.EdgeColumns()
	return &Store[E, S, O, P]{
		db:            db,
		table:         edge.TableName(),
		subjectColumn: subjectColumn,
		objectColumn:  objectColumn,
		subjectTable:  subject.TableName(),
		objectTable:   object.TableName(),
	}
}

// WithDB returns a copy of the store bound to db, typically a transaction.
func (s *Store[E, S, O, P]) WithDB(db *gorm.DB) *Store[E, S, O, P] {
	clone := *s
	clone.db = db
	return &clone
}

// Add creates the edge unless it already exists. Both endpoints must exist.
// created reports whether a new row was written.
func (s *Store[E, S, O, P]) Add(subjectID, objectID uint) (edge *E, created bool, err error) {
	if err := database.RequireRow(s.db, s.subjectTable, subjectID); err != nil {
		return nil, false, err
	}
	if err := database.RequireRow(s.db, s.objectTable, objectID); err != nil {
		return nil, false, err
	}

	row := P(new(E))
	row.Connect(subjectID, objectID)

	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return nil, false, database.Translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return (*E)(row), true, nil
	}

	existing, err := s.Get(subjectID, objectID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Remove deletes the edge and reports whether a row was removed.
func (s *Store[E, S, O, P]) Remove(subjectID, objectID uint) (bool, error) {
	result := s.db.Where(s.endpoints(), subjectID, objectID).Delete(new(E))
	if result.Error != nil {
		return false, database.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Has reports whether the edge exists.
func (s *Store[E, S, O, P]) Has(subjectID, objectID uint) (bool, error) {
	var count int64
	err := s.db.Model(new(E)).Where(s.endpoints(), subjectID, objectID).Count(&count).Error
	if err != nil {
		return false, database.Translate(err)
	}
	return count > 0, nil
}

// Get returns the edge row or ErrNotFound.
func (s *Store[E, S, O, P]) Get(subjectID, objectID uint) (*E, error) {
	var edge E
	err := s.db.Where(s.endpoints(), subjectID, objectID).First(&edge).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &edge, nil
}

// ListObjects returns the objects the subject points at, most recent edge first.
func (s *Store[E, S, O, P]) ListObjects(subjectID uint) ([]O, error) {
	var objects []O
	err := s.db.Table(s.objectTable).
		Select(s.objectTable+".*").
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", s.table, s.table, s.objectColumn, s.objectTable)).
		Where(fmt.Sprintf("%s.%s = ?", s.table, s.subjectColumn), subjectID).
		Order(fmt.Sprintf("%s.created_at DESC, %s.id DESC", s.table, s.table)).
		Find(&objects).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return objects, nil
}

// ListSubjects returns the subjects pointing at the object, most recent edge first.
func (s *Store[E, S, O, P]) ListSubjects(objectID uint) ([]S, error) {
	var subjects []S
	err := s.db.Table(s.subjectTable).
		Select(s.subjectTable+".*").
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", s.table, s.table, s.subjectColumn, s.subjectTable)).
		Where(fmt.Sprintf("%s.%s = ?", s.table, s.objectColumn), objectID).
		Order(fmt.Sprintf("%s.created_at DESC, %s.id DESC", s.table, s.table)).
		Find(&subjects).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return subjects, nil
}

// Count returns the number of edges pointing at the object.
func (s *Store[E, S, O, P]) Count(objectID uint) (int64, error) {
	var count int64
	err := s.db.Model(new(E)).Where(s.objectColumn+" = ?", objectID).Count(&count).Error
	if err != nil {
		return 0, database.Translate(err)
	}
	return count, nil
}

// Describe returns the table layout of this edge kind.
func (s *Store[E, S, O, P]) Describe() Descriptor {
	return Descriptor{
		Table:         s.table,
		SubjectColumn: s.subjectColumn,
		SubjectTable:  s.subjectTable,
		ObjectColumn:  s.objectColumn,
		ObjectTable:   s.objectTable,
	}
}

func (s *Store[E, S, O, P]) endpoints() string {
	return s.subjectColumn + " = ? AND " + s.objectColumn + " = ?"
}

// Descriptor names the join table of an edge kind and the tables it joins.
type Descriptor struct {
	Table         string
	SubjectColumn string
	SubjectTable  string
	ObjectColumn  string
	ObjectTable   string
}
