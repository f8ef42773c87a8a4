package catalog

import (
	"strings"

	"perfreview/internal/platform/grid"
)

const (
	DefaultMaxScore = 10

	CategoryRole        = "role evaluation"
	SubCategoryGrade    = "grade role"
	SubCategoryDetailed = "grade (detail)"

	goalPrefix = "A-"
)

type Item struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Item        string  `json:"item"`
	Description string  `json:"description"`
	MaxScore    float64 `json:"maxScore"`
	IsGoal      bool    `json:"isGoal"`
}

func IsGoalID(id string) bool {
	return strings.HasPrefix(id, goalPrefix)
}

// Build merges, in order: every common item, then grade items for grade not
// already present, then a synthesized item for each id that only appears in
// the detail rows of evaluationID. Row 0 of every table is a header.
func Build(commonRows, gradeRows [][]any, grade string, detailRows [][]any, evaluationID string) []Item {
	var items []Item
	seen := make(map[string]bool)
	add := func(item Item) {
		items = append(items, item)
		seen[item.ID] = true
	}

	common := make(map[string]Item)
	for _, row := range body(commonRows) {
		item, ok := commonItem(row)
		if !ok {
			continue
		}
		if _, dup := common[item.ID]; !dup {
			common[item.ID] = item
		}
		if !seen[item.ID] {
			add(item)
		}
	}

	grade = strings.TrimSpace(grade)
	anyGrade := make(map[string]Item)
	for _, row := range body(gradeRows) {
		item, rowGrade, ok := gradeItem(row)
		if !ok {
			continue
		}
		if _, dup := anyGrade[item.ID]; !dup {
			anyGrade[item.ID] = item
		}
		if rowGrade == grade && !seen[item.ID] {
			add(item)
		}
	}

	evaluationID = strings.TrimSpace(evaluationID)
	for _, row := range body(detailRows) {
		if cell(row, 0) != evaluationID {
			continue
		}
		id := cell(row, 1)
		if id == "" || seen[id] {
			continue
		}
		add(placeholder(id, anyGrade, common))
	}
	return items
}

func placeholder(id string, gradeMeta, commonMeta map[string]Item) Item {
	meta, ok := gradeMeta[id]
	if !ok {
		meta, ok = commonMeta[id]
	}
	if !ok {
		return Item{
			ID:          id,
			Category:    CategoryRole,
			SubCategory: SubCategoryDetailed,
			Item:        id,
			MaxScore:    DefaultMaxScore,
			IsGoal:      IsGoalID(id),
		}
	}
	if meta.Category == "" {
		meta.Category = CategoryRole
	}
	if meta.Item == "" {
		meta.Item = id
	}
	return meta
}

func commonItem(row []any) (Item, bool) {
	id := cell(row, 0)
	if id == "" {
		return Item{}, false
	}
	return Item{
		ID:          id,
		Category:    cell(row, 1),
		SubCategory: cell(row, 2),
		Item:        cell(row, 3),
		Description: cell(row, 4),
		MaxScore:    maxScore(row, 5),
		IsGoal:      IsGoalID(id),
	}, true
}

func gradeItem(row []any) (Item, string, bool) {
	id := cell(row, 1)
	if id == "" {
		return Item{}, "", false
	}
	label := cell(row, 2)
	return Item{
		ID:          id,
		Category:    CategoryRole,
		SubCategory: SubCategoryGrade,
		Item:        label,
		Description: label,
		MaxScore:    maxScore(row, 3),
		IsGoal:      IsGoalID(id),
	}, cell(row, 0), true
}

func body(rows [][]any) [][]any {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func cell(row []any, col int) string {
	if col >= len(row) {
		return ""
	}
	return grid.TrimText(row[col])
}

func maxScore(row []any, col int) float64 {
	if col < len(row) {
		if v, ok := grid.Number(row[col]); ok {
			return v
		}
	}
	return DefaultMaxScore
}
