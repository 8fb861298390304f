package entity

import (
	"fmt"
	"time"
)

const (
	StageSeeding    = "seeding"
	StageEmergence  = "emergence"
	StageVegetative = "vegetative"

	NoteFertilizer = "fertilizer"
	NoteScout      = "scout"
	NoteIrrigation = "irrigation"
	NoteCustom     = "custom"

	MetricMoisture    = "moisture"
	MetricTemperature = "temperature"
	MetricRainfall    = "rainfall"
)

var noteTexts = map[string]string{
	NoteFertilizer: "Applied fertilizer",
	NoteScout:      "Scouted for pests",
	NoteIrrigation: "Irrigated",
}

// NoteText is the stock text for a quick-action note type.
func NoteText(noteType string) (string, bool) {
	t, ok := noteTexts[noteType]
	return t, ok
}

func IsGrowthStage(stage string) bool {
	switch stage {
	case StageSeeding, StageEmergence, StageVegetative:
		return true
	}
	return false
}

func IsMetric(metric string) bool {
	switch metric {
	case MetricMoisture, MetricTemperature, MetricRainfall:
		return true
	}
	return false
}

type FarmMember struct {
	UserID string `json:"user_id" firestore:"userId"`
	Role   string `json:"role" firestore:"role"`
}

type Farm struct {
	ID        string       `json:"id" firestore:"-"`
	Name      string       `json:"name" firestore:"name"`
	Location  string       `json:"location" firestore:"location"`
	OwnerID   string       `json:"owner_id" firestore:"ownerId"`
	Members   []FarmMember `json:"members" firestore:"members"`
	FieldIDs  []string     `json:"field_ids" firestore:"fieldIds"`
	CreatedAt time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time    `json:"updated_at" firestore:"updatedAt"`
}

type StageDate struct {
	Date *time.Time `json:"date" firestore:"date"`
}

type GrowthStages struct {
	Seeding    StageDate `json:"seeding" firestore:"seeding"`
	Emergence  StageDate `json:"emergence" firestore:"emergence"`
	Vegetative StageDate `json:"vegetative" firestore:"vegetative"`
}

type FieldNote struct {
	ID   string    `json:"id" firestore:"id"`
	Type string    `json:"type" firestore:"type"`
	Text string    `json:"text" firestore:"text"`
	Date time.Time `json:"date" firestore:"date"`
}

type MetricReading struct {
	Value float64   `json:"value" firestore:"value"`
	At    time.Time `json:"at" firestore:"at"`
}

type FieldMetrics struct {
	Moisture    []MetricReading `json:"moisture" firestore:"moisture"`
	Temperature []MetricReading `json:"temperature" firestore:"temperature"`
	Rainfall    []MetricReading `json:"rainfall" firestore:"rainfall"`
}

type YieldPoint struct {
	Season string  `json:"season" firestore:"season"`
	Amount float64 `json:"amount" firestore:"amount"`
}

type Field struct {
	ID           string       `json:"id" firestore:"-"`
	Name         string       `json:"name" firestore:"name"`
	OwnerID      string       `json:"owner_id" firestore:"ownerId"`
	FarmID       string       `json:"farm_id" firestore:"farmId"`
	GrowthStages GrowthStages `json:"growth_stages" firestore:"growthStages"`
	Notes        []FieldNote  `json:"notes" firestore:"notes"`
	YieldData    []YieldPoint `json:"yield_data" firestore:"yieldData"`
	Metrics      FieldMetrics `json:"metrics" firestore:"metrics"`
	CreatedAt    time.Time    `json:"created_at" firestore:"createdAt"`
}

// DefaultFieldName names the n-th field of a farm (1-based).
func DefaultFieldName(n int) string {
	return fmt.Sprintf("Field %d", n)
}
