package models

import (
	"strings"
	"time"
)

// Booking lifecycle statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// freeEmailDomains lists consumer mail providers. Bookings from these domains
// are flagged as non-business but are not rejected.
var freeEmailDomains = map[string]struct{}{
	"gmail.com":   {},
	"hotmail.com": {},
	"yahoo.com":   {},
	"outlook.com": {},
	"live.com":    {},
}

// Booking represents a row in the call_bookings table
type Booking struct {
	ID                  string     `db:"id"`
	FirstName           string     `db:"first_name"`
	LastName            string     `db:"last_name"`
	JobTitle            string     `db:"job_title"`
	CompanyName         string     `db:"company_name"`
	CompanyWebsite      *string    `db:"company_website"`
	CompanyLinkedin     *string    `db:"company_linkedin"`
	Email               string     `db:"email"`
	Phone               string     `db:"phone"`
	Industry            string     `db:"industry"`
	AnnualRevenue       string     `db:"annual_revenue"`
	SalesTeamSize       int        `db:"sales_team_size"`
	CurrentChannels     []string   `db:"current_channels"`
	MainChallenge       string     `db:"main_challenge"`
	CallObjective       string     `db:"call_objective"`
	HasUsedAICRM        string     `db:"has_used_ai_crm"`
	Urgency             string     `db:"urgency"`
	PreferredDate       *time.Time `db:"preferred_date"`
	Timezone            string     `db:"timezone"`
	PreferredPlatform   string     `db:"preferred_platform"`
	CommitmentConfirmed bool       `db:"commitment_confirmed"`
	Language            string     `db:"language"`
	IsBusinessEmail     bool       `db:"is_business_email"`
	IPAddress           string     `db:"ip_address"`
	UserAgent           string     `db:"user_agent"`
	Status              string     `db:"status"`
	ConfirmedAt         *time.Time `db:"confirmed_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// IsBusinessEmail reports whether the email's domain is outside the
// free-provider denylist. Malformed addresses are treated as non-business.
func IsBusinessEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	_, free := freeEmailDomains[domain]
	return !free
}

// ValidBookingStatus reports whether s is a known booking status
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}
