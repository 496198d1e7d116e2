// Package maintenance removes rows left behind by story and chapter deletes.
//
// Deleting a story or chapter removes only that row. Chapters, progress,
// translations, narrations and relationship edges that pointed at it stay until
// DeleteOrphans runs, normally from the scheduled cleanup task. Reading
// progress outlives a deleted chapter: it is detached from the chapter and
// kept at story level.
package maintenance

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/edges"
	"github.com/mrlokans/storyshelf/internal/database/engagement"
)

// reference is one foreign-key column that must point at an existing row.
// A dangling detach reference is set to NULL instead of deleting the row.
type reference struct {
	column   string
	target   string
	nullable bool
	detach   bool
}

type orphanRule struct {
	table string
	refs  []reference
}

// Ordered so that rows referencing chapters and recordings are checked after
// those tables have been cleaned.
var contentRules = []orphanRule{
	{table: "chapters", refs: []reference{{column: "story_id", target: "stories"}}},
	{table: "reading_progress", refs: []reference{
		{column: "user_id", target: "users"},
		{column: "story_id", target: "stories"},
		{column: "chapter_id", target: "chapters", nullable: true, detach: true},
	}},
	{table: "translations", refs: []reference{
		{column: "story_id", target: "stories"},
		{column: "chapter_id", target: "chapters", nullable: true},
	}},
	{table: "audiobooks", refs: []reference{
		{column: "story_id", target: "stories"},
		{column: "chapter_id", target: "chapters", nullable: true},
	}},
	{table: "audio_recordings", refs: []reference{
		{column: "user_id", target: "users"},
		{column: "story_id", target: "stories"},
		{column: "chapter_id", target: "chapters", nullable: true},
	}},
	{table: "featured_authors", refs: []reference{{column: "author_id", target: "users"}}},
}

// Report counts deleted and detached rows per table.
type Report struct {
	Deleted  map[string]int64
	Detached map[string]int64
}

// Total returns the number of rows deleted across all tables.
func (r Report) Total() int64 {
	var total int64
	for _, n := range r.Deleted {
		total += n
	}
	return total
}

type Repository struct {
	db    *gorm.DB
	rules []orphanRule
}

// NewRepository creates a maintenance repository covering content tables and
// every relationship edge kind.
func NewRepository(db *gorm.DB) *Repository {
	rules := append([]orphanRule(nil), contentRules...)
	for _, d := range engagement.NewRepository(db).Descriptors() {
		rules = append(rules, edgeRule(d))
	}
	return &Repository{db: db, rules: rules}
}

func edgeRule(d edges.Descriptor) orphanRule {
	return orphanRule{
		table: d.Table,
		refs: []reference{
			{column: d.SubjectColumn, target: d.SubjectTable},
			{column: d.ObjectColumn, target: d.ObjectTable},
		},
	}
}

// DeleteOrphans removes every row whose referenced row no longer exists, in one
// transaction. Detach references are cleared rather than deleted.
func (r *Repository) DeleteOrphans() (Report, error) {
	report := Report{Deleted: make(map[string]int64), Detached: make(map[string]int64)}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, rule := range r.rules {
			for _, ref := range rule.refs {
				result := tx.Exec(orphanSQL(rule.table, ref))
				if result.Error != nil {
					return fmt.Errorf("cleaning %s.%s: %w", rule.table, ref.column, database.Translate(result.Error))
				}
				if result.RowsAffected == 0 {
					continue
				}
				if ref.detach {
					report.Detached[rule.table] += result.RowsAffected
				} else {
					report.Deleted[rule.table] += result.RowsAffected
				}
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func orphanSQL(table string, ref reference) string {
	missing := fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE %s.id = %s.%s)", ref.target, ref.target, table, ref.column)
	if ref.detach {
		return fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s IS NOT NULL AND %s", table, ref.column, ref.column, missing)
	}
	if ref.nullable {
		return fmt.Sprintf("DELETE FROM %s WHERE %s IS NOT NULL AND %s", table, ref.column, missing)
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", table, missing)
}
