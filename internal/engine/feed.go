package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/lunar"
)

// FeedConfig contains the user-tunable parts of the generated calendar.
type FeedConfig struct {
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D"); empty disables the alarm.
}

// FeedGenerator turns the Tết table into an iCalendar feed.
type FeedGenerator struct {
	Clock Clock // Interface for time mocking.

	// FormatSummary allows the UI to inject localized event titles.
	FormatSummary func(year int) string
}

// Generate builds the ICS document and the display entries for every year of the table.
func (g *FeedGenerator) Generate(ctx context.Context, cfg FeedConfig) ([]byte, []TetEntry, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompFeed)

	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}
	// Tết is a local calendar day; only DTSTAMP is converted to UTC.
	now := clock.Now()
	loc := now.Location()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	var entries []TetEntry
	for _, row := range lunar.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		date := row.In(loc)
		days := daysBetween(now, date)
		entries = append(entries, TetEntry{
			Year:      row.Year,
			Date:      date,
			DaysUntil: days,
			IsToday:   days == 0,
		})

		summary := fmt.Sprintf(config.FallbackSummary, row.Year)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(row.Year)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, EventUID(row.Year))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.Set(dtStampProp)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(date)
		event.Props.Set(dtStartProp)

		if cfg.ReminderTrigger != "" {
			addAlarm(event, cfg.ReminderTrigger, summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgFeedGenerated,
		config.LogKeyCount, len(entries),
		config.LogKeySizeBytes, buf.Len(),
	)
	log.Debug(config.MsgFeedDuration, config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), entries, nil
}

// EventUID returns the stable UID of the Tết event of year.
// UUIDv5 keeps it identical across regenerations and machines.
func EventUID(year int) string {
	id := uuid.NewSHA1(config.FeedNamespace, []byte(fmt.Sprintf(config.FormatUIDName, year)))
	return id.String() + "@" + config.ICalDomain
}

// ReminderTrigger builds the VALARM trigger for an alert daysBefore days before
// the start of Tết. Zero or negative days disables the alarm.
func ReminderTrigger(daysBefore int) string {
	if daysBefore <= 0 {
		return ""
	}
	return fmt.Sprintf("%s%d%s", config.ISONegativePrefix, daysBefore, config.ISODay)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
