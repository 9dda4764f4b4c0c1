package scoring

import "testing"

func TestIsTimeWaster(t *testing.T) {
	tests := []struct {
		name    string
		message string
		history []Turn
		want    bool
	}{
		{
			name:    "greeting only",
			message: "hoi ja",
			want:    true,
		},
		{
			name:    "very short without digits",
			message: "ok dan",
			want:    true,
		},
		{
			name:    "short off topic message",
			message: "kun je me even helpen?",
			want:    true,
		},
		{
			name:    "concrete test drive request",
			message: "Kan ik morgen een proefrit maken in de Golf 8?",
			want:    false,
		},
		{
			name:    "repeated message within last three turns",
			message: "wat is de prijs van de golf?",
			history: []Turn{
				{Role: "user", Content: "Wat is de prijs van de Golf?"},
				{Role: "user", Content: "wat is de prijs van de golf? "},
			},
			want: true,
		},
		{
			name:    "repeat too far back in history",
			message: "wat is de prijs van de golf?",
			history: []Turn{
				{Role: "user", Content: "wat is de prijs van de golf?"},
				{Role: "user", Content: "wat is de prijs van de golf?"},
				{Role: "assistant", Content: "De Golf staat voor 24.950 euro"},
				{Role: "user", Content: "Is onderhandeling over de prijs mogelijk?"},
				{Role: "assistant", Content: "Daar valt over te praten"},
			},
			want: false,
		},
		{
			name:    "long conversation without any purchase intent",
			message: "bedankt voor de info over de kleuren van de auto",
			history: []Turn{
				{Role: "user", Content: "welke kleuren zijn er?"},
				{Role: "assistant", Content: "Zwart, grijs en blauw"},
				{Role: "user", Content: "en welke velgen?"},
				{Role: "assistant", Content: "Standaard 17 inch"},
				{Role: "user", Content: "heeft hij apple carplay?"},
				{Role: "assistant", Content: "Ja, standaard"},
			},
			want: true,
		},
		{
			name:    "long conversation with earlier purchase intent",
			message: "bedankt voor de info over de kleuren van de auto",
			history: []Turn{
				{Role: "user", Content: "ik wil graag een proefrit plannen"},
				{Role: "assistant", Content: "Dat kan, wanneer schikt het?"},
				{Role: "user", Content: "welke kleuren zijn er?"},
				{Role: "assistant", Content: "Zwart, grijs en blauw"},
				{Role: "user", Content: "en welke velgen?"},
				{Role: "assistant", Content: "Standaard 17 inch"},
			},
			want: false,
		},
		{
			name:    "empty message",
			message: "",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsTimeWaster(tt.message, tt.history)
			if got != tt.want {
				t.Errorf("IsTimeWaster(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
