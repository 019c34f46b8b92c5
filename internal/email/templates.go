package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// baseEmailData carries the fields the shared layout renders.
type baseEmailData struct {
	Title      string
	Heading    string
	FirstName  string
	CTALabel   string
	CTAURL     string
	TrackingPx string
}

type welcomeEmailData struct {
	baseEmailData
	CareerGoal string
}

type resourceDeliveryEmailData struct {
	baseEmailData
	CareerGoal string
}

type socialProofEmailData struct {
	baseEmailData
}

type bookingReminderEmailData struct {
	baseEmailData
}

type finalOfferEmailData struct {
	baseEmailData
}

type bookingConfirmationEmailData struct {
	baseEmailData
	StartTime  string
	Duration   string
	CareerGoal string
}

type postCallFollowUpEmailData struct {
	baseEmailData
	Outcome        string
	CourseInterest string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
