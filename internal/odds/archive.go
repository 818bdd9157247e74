package odds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rewired-gh/nbafuse/internal/calendar"
	"github.com/rewired-gh/nbafuse/internal/models"
)

// Column names of the odds archive and of exported season files.
const (
	ColDate         = "Date"
	ColHome         = "Home"
	ColAway         = "Away"
	ColOU           = "OU"
	ColSpread       = "Spread"
	ColMLHome       = "ML_Home"
	ColMLAway       = "ML_Away"
	ColPoints       = "Points"
	ColWinMargin    = "Win_Margin"
	ColDaysRestHome = "Days_Rest_Home"
	ColDaysRestAway = "Days_Rest_Away"
)

var requiredColumns = []string{ColDate, ColHome, ColAway, ColOU, ColSpread, ColMLHome, ColMLAway, ColPoints, ColWinMargin}

// ArchiveResult is the outcome of reading an archive file.
type ArchiveResult struct {
	Records []models.OddsRecord
	Skipped int
}

// ReadArchive parses a CSV odds archive. Columns are matched by header name;
// unknown columns are ignored. Rows with an unparseable date or team names are
// skipped and counted.
func ReadArchive(r io.Reader) (*ArchiveResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archive is empty")
		}
		return nil, fmt.Errorf("failed to read archive header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("archive is missing column %q", c)
		}
	}

	res := &ArchiveResult{}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read archive line %d: %w", line, err)
		}
		rec, ok := archiveRecord(row, idx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func archiveRecord(row []string, idx map[string]int) (models.OddsRecord, bool) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	d, err := models.ParseDate(get(ColDate))
	if err != nil {
		return models.OddsRecord{}, false
	}
	rec := models.OddsRecord{
		Date:      models.DateKey(d),
		Home:      get(ColHome),
		Away:      get(ColAway),
		OU:        parseNumber(get(ColOU)),
		Spread:    parseNumber(get(ColSpread)),
		MLHome:    parseNumber(get(ColMLHome)),
		MLAway:    parseNumber(get(ColMLAway)),
		Points:    parseNumber(get(ColPoints)),
		WinMargin: parseNumber(get(ColWinMargin)),
	}
	if rec.Home == "" || rec.Away == "" {
		return models.OddsRecord{}, false
	}
	return rec, true
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// SplitBySeason assigns every record to the season whose date range contains
// it and numbers the records of each season in input order. Records outside
// every season are dropped.
func SplitBySeason(records []models.OddsRecord, seasons []models.Season) map[string][]models.OddsRecord {
	out := make(map[string][]models.OddsRecord)
	for _, rec := range records {
		d, err := models.ParseDate(rec.Date)
		if err != nil {
			continue
		}
		s, ok := calendar.SeasonFor(seasons, d)
		if !ok {
			continue
		}
		rec.Season = s.ID
		rec.Seq = len(out[s.ID])
		out[s.ID] = append(out[s.ID], rec)
	}
	return out
}

// WriteCSV writes records in the season table column layout.
func WriteCSV(w io.Writer, records []models.OddsRecord) error {
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), requiredColumns...), ColDaysRestHome, ColDaysRestAway)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date, r.Home, r.Away,
			formatNumber(r.OU), formatNumber(r.Spread),
			formatNumber(r.MLHome), formatNumber(r.MLAway),
			formatNumber(r.Points), formatNumber(r.WinMargin),
			restCell(r.DaysRestHome), restCell(r.DaysRestAway),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func restCell(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
