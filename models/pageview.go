package models

import "time"

// PageVisit stores the running visit count of one tracked page.
type PageVisit struct {
	PageName   string     `gorm:"primaryKey;size:64" json:"page_name"`
	VisitCount int64      `gorm:"not null" json:"visit_count"`
	LastVisit  *time.Time `json:"last_visit"`
}

// Known page keys. Unknown keys are never inserted on the fly.
const (
	PageHome      = "home"
	PagePetitions = "petitions"
	PageAbout     = "about"
)

// TrackedPages lists the page keys seeded at boot.
var TrackedPages = []string{PageHome, PagePetitions, PageAbout}
