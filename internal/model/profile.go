package model

// StadiumID identifies a stadium (facility) document
type StadiumID string

// Manager is the application-level profile of a facility manager,
// stored at managers/{uid}
type Manager struct {
	UID       UserID    `json:"uid" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	StadiumID StadiumID `json:"stadiumID,omitempty" firestore:"stadiumID,omitempty"`
}

// HasStadium reports whether the manager references a stadium
func (m *Manager) HasStadium() bool {
	return m.StadiumID != ""
}

// Stadium is the sports venue a manager runs, stored at stadiums/{id}
type Stadium struct {
	ID   StadiumID `json:"id" firestore:"-"`
	Name string    `json:"name" firestore:"name"`
}
