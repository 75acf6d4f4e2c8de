package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"imagestyle/internal/apiclient"
	"imagestyle/internal/earnings"
	"imagestyle/internal/scheduling"
)

func (a *app) slots(ctx context.Context, args []string) error {
	fs := newFlagSet("slots")
	date := fs.String("date", time.Now().Format(scheduling.DateLayout), "day, YYYY-MM-DD")
	staff := fs.Int64("staff", 0, "staff member id")
	duration := fs.Int("duration", 0, "appointment length in minutes")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := scheduling.ParseDate(*date); err != nil {
		return err
	}
	if *staff <= 0 {
		return usageError{msg: "slots needs --staff"}
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	res, err := a.api.Slots(ctx, *date, *staff, *duration)
	if err != nil {
		return a.handleAuth(err)
	}
	if len(res.Slots) == 0 {
		fmt.Fprintf(a.out, "no free slots on %s\n", res.Date)
		return nil
	}
	fmt.Fprintf(a.out, "free slots on %s (%d min):\n%s\n", res.Date, res.DurationMinutes, strings.Join(res.Slots, " "))
	return nil
}

// book builds a draft from flags. Duration and price flags override the
// catalog defaults of the chosen service.
func (a *app) book(ctx context.Context, args []string) error {
	fs := newFlagSet("book")
	client := fs.String("client", "", "client id")
	staff := fs.String("staff", "", "staff member id")
	specialty := fs.String("specialty", "Hair", "Hair | Nails | Makeup | Brows & Lashes")
	service := fs.String("service", "", "catalog service (defaults to the first of the specialty)")
	date := fs.String("date", "", "day, YYYY-MM-DD")
	at := fs.String("time", "", "start, HH:MM")
	hours := fs.String("hours", "", "duration hours override")
	minutes := fs.String("minutes", "", "duration minutes override")
	price := fs.String("price", "", "price override")
	comment := fs.String("comment", "", "free-text note")
	if err := parse(fs, args); err != nil {
		return err
	}

	d := scheduling.NewDraft(*specialty, nil)
	if *service != "" {
		if err := d.SelectService(*service); err != nil {
			return err
		}
	}
	if fs.Changed("hours") {
		d.SetHours(*hours)
	}
	if fs.Changed("minutes") {
		d.SetMinutes(*minutes)
	}
	var errs []error
	if fs.Changed("price") {
		errs = append(errs, d.SetPrice(*price))
	}
	errs = append(errs, d.SetClient(*client), d.SetStaff(*staff))
	d.Date = *date
	d.StartTime = *at
	d.Comment = *comment

	booking, err := d.Booking()
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := a.requireLogin(); err != nil {
		return err
	}
	created, err := a.api.CreateAppointment(ctx, booking)
	if err != nil {
		return a.handleAuth(err)
	}
	fmt.Fprintf(a.out, "booked #%d %s %s to %s (%s)\n",
		created.ID, created.ServiceName, created.StartTime, created.EndTime, created.Price.Value().StringFixed(2))
	return nil
}

func (a *app) appointments(ctx context.Context, args []string) error {
	fs := newFlagSet("appointments")
	today := earnings.Today(time.Now())
	start := fs.String("start", today.StartString(), "from, YYYY-MM-DDTHH:MM:SS")
	end := fs.String("end", today.EndString(), "to, YYYY-MM-DDTHH:MM:SS")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.api.ListAppointments(ctx, *start, *end)
	if err != nil {
		return a.handleAuth(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tSERVICE\tCLIENT\tSTAFF\tPRICE")
	for _, ap := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			ap.ID, ap.StartTime, ap.EndTime, ap.ServiceName, ap.ClientID, ap.StaffID, ap.Price.Value().StringFixed(2))
	}
	return tw.Flush()
}

func (a *app) clients(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("clients"), args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.api.ListClients(ctx)
	if err != nil {
		return a.handleAuth(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", c.ID, c.FirstName, c.LastName, c.Phone, c.Email)
	}
	return tw.Flush()
}

func (a *app) addClient(ctx context.Context, args []string) error {
	fs := newFlagSet("add-client")
	var in apiclient.NewClient
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Email, "email", "", "email")
	if err := parse(fs, args); err != nil {
		return err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", scheduling.ErrInvalidInput)
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	c, err := a.api.CreateClient(ctx, in)
	if err != nil {
		return a.handleAuth(err)
	}
	fmt.Fprintf(a.out, "added client #%d %s %s\n", c.ID, c.FirstName, c.LastName)
	return nil
}

func (a *app) earnings(ctx context.Context, args []string) error {
	fs := newFlagSet("earnings")
	preset := fs.String("preset", earnings.PresetToday, "today | week | month")
	serverSide := fs.Bool("server-side", false, "let the server aggregate")
	if err := parse(fs, args); err != nil {
		return err
	}
	rng, err := earnings.PresetRange(*preset, time.Now())
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var summary earnings.Summary
	if *serverSide {
		s, err := a.api.ServerEarnings(ctx, *preset)
		if err != nil {
			return a.handleAuth(err)
		}
		summary = *s
	} else {
		summary, err = a.api.Earnings(ctx, rng)
		if err != nil {
			return a.handleAuth(err)
		}
	}

	fmt.Fprintf(a.out, "earnings %s .. %s\n", rng.StartString(), rng.EndString())
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, b := range summary.ByDay {
		fmt.Fprintf(tw, "%s\t%d appointments\t%s\n", b.Day, len(b.Items), b.DayTotal.StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\n", summary.Total.StringFixed(2))
	return tw.Flush()
}

func (a *app) catalog(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	list, err := a.api.Catalog(ctx)
	if err != nil {
		return a.handleAuth(err)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, l := range list {
		for _, s := range l.Services {
			fmt.Fprintf(tw, "%s\t%s\t%d min\t%s\n", l.Specialty, s.Name, s.DefaultMinutes, s.DefaultPrice.StringFixed(2))
		}
	}
	return tw.Flush()
}
