package pantry

// PantryItem is an ingredient the user has on hand.
type PantryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	ExpiresIn string `json:"expiresIn"`
	IsLow     bool   `json:"isLow"`
	Icon      string `json:"icon"`
}

// PantryItemUpdate carries the fields to merge into an existing item. Nil
// fields are left untouched.
type PantryItemUpdate struct {
	Name      *string
	Quantity  *string
	ExpiresIn *string
	IsLow     *bool
	Icon      *string
}

func (u PantryItemUpdate) apply(item *PantryItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.ExpiresIn != nil {
		item.ExpiresIn = *u.ExpiresIn
	}
	if u.IsLow != nil {
		item.IsLow = *u.IsLow
	}
	if u.Icon != nil {
		item.Icon = *u.Icon
	}
}

// ShoppingListItem is one line of the shopping list.
type ShoppingListItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Category string `json:"category,omitempty"`
	Checked  bool   `json:"checked"`
}

// State is the persisted pantry snapshot.
type State struct {
	PantryItems  []PantryItem       `json:"pantryItems"`
	ShoppingList []ShoppingListItem `json:"shoppingList"`
}

// DefaultState returns the pantry a new user starts with.
func DefaultState() State {
	return State{
		PantryItems: []PantryItem{
			{ID: "1", Name: "Chicken Breast", Quantity: "500g", ExpiresIn: "3 days", IsLow: false, Icon: "🍗"},
			{ID: "2", Name: "Brown Rice", Quantity: "200g", ExpiresIn: "2 months", IsLow: true, Icon: "🍚"},
			{ID: "3", Name: "Eggs", Quantity: "6 pcs", ExpiresIn: "1 week", IsLow: false, Icon: "🥚"},
			{ID: "4", Name: "Spinach", Quantity: "100g", ExpiresIn: "2 days", IsLow: true, Icon: "🥬"},
			{ID: "5", Name: "Greek Yogurt", Quantity: "500ml", ExpiresIn: "5 days", IsLow: false, Icon: "🥛"},
			{ID: "6", Name: "Olive Oil", Quantity: "250ml", ExpiresIn: "6 months", IsLow: false, Icon: "🫒"},
		},
		ShoppingList: []ShoppingListItem{
			{ID: "1", Name: "Avocados", Quantity: "3"},
			{ID: "2", Name: "Salmon fillet", Quantity: "400g"},
			{ID: "3", Name: "Cherry tomatoes", Quantity: "200g"},
			{ID: "4", Name: "Fresh basil"},
			{ID: "5", Name: "Lemon", Quantity: "2"},
		},
	}
}

func (s State) clone() State {
	return State{
		PantryItems:  append([]PantryItem(nil), s.PantryItems...),
		ShoppingList: append([]ShoppingListItem(nil), s.ShoppingList...),
	}
}
