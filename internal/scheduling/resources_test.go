package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateTherapistMatchesSpecialization(t *testing.T) {
	assert.Equal(t, "T1", AllocateTherapist("vamana-special").ID)
	assert.Equal(t, "T2", AllocateTherapist("virechana").ID)
	assert.Equal(t, "T3", AllocateTherapist("basti").ID)
}

func TestAllocateTherapistFallsBackToFirst(t *testing.T) {
	// Unmatched therapies always land on the first roster entry, never none.
	assert.Equal(t, "T1", AllocateTherapist("nasya").ID)
	assert.Equal(t, "T1", AllocateTherapist("raktamokshana").ID)
	assert.Equal(t, "T1", AllocateTherapist("").ID)
}

func TestRoomByID(t *testing.T) {
	room, ok := RoomByID("R3")
	assert.True(t, ok)
	assert.Equal(t, "Sushruta Suite", room.Name)
	assert.Equal(t, "Premium", room.Category)

	_, ok = RoomByID("R9")
	assert.False(t, ok)
}

func TestTotalDailyCapacity(t *testing.T) {
	assert.Equal(t, 12, TotalDailyCapacity())
}

func TestOccupancyPercent(t *testing.T) {
	tests := []struct {
		name     string
		booked   int
		capacity int
		want     int
	}{
		{"empty", 0, 12, 0},
		{"half", 6, 12, 50},
		{"third", 4, 12, 33},
		{"full", 12, 12, 100},
		{"over capacity caps at 100", 20, 12, 100},
		{"zero capacity", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccupancyPercent(tt.booked, tt.capacity))
		})
	}
}
