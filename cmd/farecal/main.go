// farecal queries the fare service from the terminal.
//
// Usage:
//
//	farecal airports
//	farecal calendar --from DUB --to BCN [--start 2024-03-01 --end 2024-04-30]
//	farecal search --from DUB --to BCN --date 2024-03-10 [--return 2024-03-17]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/client"
	"github.com/dharmasatrya/farecalendar/internal/logger"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/queries"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
	"github.com/dharmasatrya/farecalendar/internal/search"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "farecal",
		Usage:   "Daily fare calendars and cheapest alternatives from the terminal",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   client.DefaultBaseURL,
				Usage:   "Fare service base URL",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   15 * time.Second,
				Usage:   "Per-request timeout",
				EnvVars: []string{"API_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of text",
			},
		},

		Commands: []*cli.Command{
			airportsCommand(),
			calendarCommand(),
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cache    *querycache.Cache
	airports *queries.Airports
	service  *search.Service
	out      io.Writer
	json     bool
}

func setup(c *cli.Context) (*env, error) {
	logr := logger.Setup(c.String("log-level"), true)

	apiClient, err := client.New(client.Config{
		BaseURL: c.String("api-url"),
		Timeout: c.Duration("timeout"),
		Logger:  logr,
	})
	if err != nil {
		return nil, err
	}

	qc := querycache.New(querycache.WithLogger(logr))
	airports := queries.NewAirports(qc, apiClient)
	fares := queries.NewFares(qc, apiClient)

	return &env{
		cache:    qc,
		airports: airports,
		service:  search.NewService(fares, airports, search.Config{Timeout: 2 * c.Duration("timeout")}, logr),
		out:      c.App.Writer,
		json:     c.Bool("json"),
	}, nil
}

func (e *env) close() {
	e.cache.Close()
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func airportsCommand() *cli.Command {
	return &cli.Command{
		Name:  "airports",
		Usage: "List active airports",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			airports, err := queries.Await[[]models.Airport](c.Context, e.airports.Active())
			if err != nil {
				return fmt.Errorf("failed to list airports: %w", err)
			}
			if e.json {
				return e.printJSON(airports)
			}

			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCOUNTRY\tTIMEZONE")
			for _, a := range airports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Country, a.Timezone)
			}
			return w.Flush()
		},
	}
}

func calendarCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Show a daily fare calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "Origin airport code", Required: true},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Destination airport code", Required: true},
			&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "date", Usage: "Day the calendar opens on when no range is given"},
			&cli.StringFlag{Name: "currency", Value: models.DefaultCurrency, Usage: "Currency code"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			resp, err := e.service.Calendar(c.Context, models.CalendarRequest{
				From:         c.String("from"),
				To:           c.String("to"),
				StartDate:    c.String("start"),
				EndDate:      c.String("end"),
				SelectedDate: c.String("date"),
				Currency:     c.String("currency"),
			})
			if err != nil {
				return fmt.Errorf("failed to load calendar: %w", err)
			}
			if e.json {
				return e.printJSON(resp)
			}

			printCalendar(e.out, resp)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search fares for a day, with alternatives when it is unavailable",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "Origin airport code", Required: true},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Destination airport code", Required: true},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Departure day (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: "return", Aliases: []string{"r"}, Usage: "Return day for a round trip"},
			&cli.StringFlag{Name: "currency", Value: models.DefaultCurrency, Usage: "Currency code"},
			&cli.IntFlag{Name: "alternatives", Value: 3, Usage: "Number of alternative days"},
			&cli.IntFlag{Name: "options", Value: 5, Usage: "Round-trip options to print"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			resp, err := e.service.Search(c.Context, models.SearchRequest{
				From:              c.String("from"),
				To:                c.String("to"),
				DepartureDate:     c.String("date"),
				ReturnDate:        c.String("return"),
				Currency:          c.String("currency"),
				AlternativesLimit: c.Int("alternatives"),
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if e.json {
				return e.printJSON(resp)
			}

			printSearch(e.out, resp, c.Int("options"))
			return nil
		},
	}
}

func printSearch(w io.Writer, resp *models.SearchResponse, maxOptions int) {
	crit := resp.SearchCriteria
	fmt.Fprintf(w, "%s -> %s on %s (%s)\n", crit.From, crit.To, crit.DepartureDate, crit.TripType)

	switch {
	case resp.SelectedFare != nil && !resp.DateUnavailable:
		fmt.Fprintf(w, "  fare: %s%s\n", resp.SelectedFare.Formatted, clock(resp.SelectedFare))
	case resp.SelectedFare != nil && resp.SelectedFare.SoldOut:
		fmt.Fprintln(w, "  sold out")
	default:
		fmt.Fprintln(w, "  no flights on this day")
	}

	if len(resp.Alternatives) > 0 {
		fmt.Fprintln(w, "Available alternatives:")
		for _, alt := range resp.Alternatives {
			fmt.Fprintf(w, "  %s  %s%s\n", alt.Day, alt.Formatted, clock(&alt))
		}
	}
	if resp.BestFare != nil {
		fmt.Fprintf(w, "Best fare: %s on %s\n", resp.BestFare.Formatted, resp.BestFare.Day)
	}

	if len(resp.RoundTripOptions) > 0 {
		fmt.Fprintf(w, "Round trips (%s):\n", resp.Metadata.RoundTripSource)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i, o := range resp.RoundTripOptions {
			if i == maxOptions {
				break
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", o.Departure.Day, o.Return.Day, o.Formatted)
		}
		_ = tw.Flush()
	}
	if resp.Metadata.SkippedPairs > 0 {
		fmt.Fprintf(w, "(%d pairs skipped: legs priced in different currencies)\n", resp.Metadata.SkippedPairs)
	}
}

func clock(f *models.FareView) string {
	if f.DepartureTime == "" {
		return ""
	}
	return fmt.Sprintf("  %s-%s", f.DepartureTime, f.ArrivalTime)
}

func printCalendar(w io.Writer, resp *models.CalendarResponse) {
	fmt.Fprintf(w, "%s -> %s, %s to %s (%s)\n", resp.From, resp.To, resp.StartDate, resp.EndDate, resp.Currency)

	for _, month := range resp.Months {
		t, err := time.Parse("2006-01", month.Month)
		if err == nil {
			fmt.Fprintf(w, "\n%s\n", t.Format("January 2006"))
		}
		fmt.Fprintln(w, strings.Join([]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}, "      "))

		for i, day := range month.Days {
			fmt.Fprintf(w, "%-8s", cell(day))
			if i%7 == 6 {
				fmt.Fprintln(w)
			}
		}
	}

	if resp.MinFare != nil {
		fmt.Fprintf(w, "\nCheapest: %s on %s\n", resp.MinFare.Formatted, resp.MinFare.Day)
	}
}

func cell(day models.CalendarDay) string {
	switch calendar.CellState(day.State) {
	case calendar.CellPadding:
		return ""
	case calendar.CellBookable:
		return day.Date[8:] + ":" + day.Formatted
	case calendar.CellSoldOut:
		return day.Date[8:] + ":sold"
	case calendar.CellPast, calendar.CellOutOfRange:
		return day.Date[8:] + ":  "
	default:
		return day.Date[8:] + ":--"
	}
}
