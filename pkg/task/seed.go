package task

// DefaultCategories is used when no categories were persisted yet.
func DefaultCategories() []Category {
	return []Category{
		{ID: DefaultCategoryID, Name: "Uncategorized", Color: "#9b87f5"},
		{ID: "work", Name: "Work", Color: "#9b87f5"},
		{ID: "personal", Name: "Personal", Color: "#6E59A5"},
	}
}

// DefaultClasses is used when no classes were persisted yet.
func DefaultClasses() []Class {
	return []Class{
		{ID: "important", Name: "Important", Color: "#f97316"},
		{ID: "urgent", Name: "Urgent", Color: "#ea384c"},
	}
}
