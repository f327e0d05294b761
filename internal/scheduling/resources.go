// Package scheduling allocates treatment rooms and therapists for bookings.
package scheduling

import "strings"

// SlotsPerRoomPerDay caps how many appointments a room takes in one day.
const SlotsPerRoomPerDay = 3

// Room is a treatment room (Kuti) at a center.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
}

// Therapist is a practitioner (Vaidya) who can be assigned to a booking.
type Therapist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// TherapyRooms is the fixed room list, in allocation preference order.
var TherapyRooms = []Room{
	{ID: "R1", Name: "Dhanvantari Hall A", Category: "General", Capacity: 1},
	{ID: "R2", Name: "Dhanvantari Hall B", Category: "General", Capacity: 1},
	{ID: "R3", Name: "Sushruta Suite", Category: "Premium", Capacity: 1},
	{ID: "R4", Name: "Charaka Chamber", Category: "Premium", Capacity: 1},
}

// Therapists is the fixed practitioner roster.
var Therapists = []Therapist{
	{ID: "T1", Name: "Dr. Aarav", Specialization: "Vamana"},
	{ID: "T2", Name: "Therapist Maya", Specialization: "Virechana"},
	{ID: "T3", Name: "Therapist Rohan", Specialization: "Basti"},
}

// TotalDailyCapacity is the center-wide slot count for one day.
func TotalDailyCapacity() int {
	return len(TherapyRooms) * SlotsPerRoomPerDay
}

// AllocateTherapist picks the first therapist whose specialization appears in
// the therapy identifier (case-insensitive). With no match the first therapist
// on the roster is assigned, never none.
func AllocateTherapist(therapyID string) Therapist {
	needle := strings.ToLower(therapyID)
	for _, t := range Therapists {
		if strings.Contains(needle, strings.ToLower(t.Specialization)) {
			return t
		}
	}
	return Therapists[0]
}

// RoomByID looks up a room from the fixed list.
func RoomByID(id string) (Room, bool) {
	for _, r := range TherapyRooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
