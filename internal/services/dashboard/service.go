package dashboard

// Card is a single summary tile on the dashboard
type Card struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint"`
}

// Service provides the dashboard summary cards.
// The values are fixed until booking and membership data exist.
type Service struct {
	cards []Card
}

// New creates a new dashboard Service
func New() *Service {
	return &Service{
		cards: []Card{
			{Key: "bookings", Title: "Total Bookings", Value: "1,248", Hint: "+12% from last month"},
			{Key: "members", Title: "Active Members", Value: "342", Hint: "+8 this week"},
			{Key: "courts", Title: "Courts Available", Value: "6 / 8", Hint: "2 under maintenance"},
			{Key: "revenue", Title: "Monthly Revenue", Value: "$24,560", Hint: "+5% from last month"},
			{Key: "events", Title: "Upcoming Events", Value: "4", Hint: "Next: Saturday tournament"},
		},
	}
}

// Cards returns the summary cards in display order
func (s *Service) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
