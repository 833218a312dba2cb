package main

import (
	"fmt"
	"log"
	"net/url"
	"time"

	ics "github.com/aimcal/ical"
)

// Builds an event whose DESCRIPTION carries an ALTREP data: URI and whose
// zone keeps a vendor X- property, then prints it.
func main() {
	i := ics.NewCalendarFor("Mozilla.org/NONSGML Mozilla Calendar V1.1")

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		log.Fatal(err)
	}
	tz := ics.NewTimezone("Europe/Berlin")
	tz.XProperties = append(tz.XProperties, ics.TypedProperty{
		Name:      "X-TZINFO",
		Class:     ics.PropertyClassXName,
		ValueType: ics.ValueDataTypeText,
		Raw:       "Europe/Berlin[2024a]",
	})
	start := ics.NewDateTimeFloating(time.Date(1893, 4, 1, 0, 0, 0, 0, time.UTC))
	std := tz.AddStandard(start, ics.NewUTCOffset(53*60+28), ics.NewUTCOffset(3600))
	std.AddTzName("Europe/Berlin(STD)")
	std.RDates = append(std.RDates, ics.Prop[ics.RecurrenceDates]{Value: ics.RecurrenceDates{DateTimes: []ics.DateTime{start}}})
	i.Add(tz)

	vEvent := ics.NewEvent("d23cef0d-9e58-43c4-9391-5ad8483ca346",
		time.Date(2024, 9, 29, 12, 7, 31, 0, time.UTC),
		time.Date(2024, 9, 29, 14, 45, 0, 0, berlin))
	vEvent.SetCreatedTime(time.Date(2024, 9, 29, 12, 6, 40, 0, time.UTC))
	vEvent.SetModifiedAt(time.Date(2024, 9, 29, 12, 7, 31, 0, time.UTC))
	vEvent.SetSummary("Test Event")
	vEvent.SetEndAt(time.Date(2024, 9, 29, 15, 45, 0, 0, berlin))
	vEvent.SetTimeTransparency(ics.TimeTransparencyOpaque)
	vEvent.SetLocation("Github")
	uri := &url.URL{
		Scheme: "data",
		Opaque: "text/html,I%20want%20a%20custom%20linkout%20for%20Thunderbird.%3Cbr%3EThis%20is%20the%20Github%20%3Ca%20href%3D%22https%3A%2F%2Fgithub.com%2Farran4%2Fgolang-ical%2Fissues%2F97%22%3EIssue%3C%2Fa%3E.",
	}
	vEvent.Description = &ics.Prop[ics.Text]{Value: ics.Text{
		Content: "\"I want a custom linkout for Thunderbird.\nThis is the Github Issue.",
		AltRep:  ics.URI(uri.String()),
	}}
	i.Add(vEvent)
	fmt.Println(i.Serialize())
}
