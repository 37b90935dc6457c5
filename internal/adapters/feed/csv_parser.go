package feed

import (
	"strings"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
)

// Row is one data line keyed by header name. Only the first
// min(len(headers), len(values)) columns are present.
type Row map[string]string

// ParseRows splits the CMS export into header-keyed rows.
//
// The dialect is the one the CMS file actually uses: a double quote toggles
// quoting and is dropped, commas outside quotes separate fields, and doubled
// quotes are not treated as escapes. A leading byte-order mark is dropped.
// Blank lines are skipped and a row is kept only when both the facility id
// and name are non-empty.
func ParseRows(text string) []Row {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := splitLine(lines[0])

	rows := make([]Row, 0, len(lines)-1)
	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		values := splitLine(line)
		n := min(len(headers), len(values))

		row := make(Row, n)
		for i := 0; i < n; i++ {
			row[headers[i]] = values[i]
		}

		if row[entities.ColumnFacilityID] == "" || row[entities.ColumnFacilityName] == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

// ParseFacilityRecords parses the export straight into typed records.
func ParseFacilityRecords(text string) []entities.FacilityRecord {
	rows := ParseRows(text)
	records := make([]entities.FacilityRecord, len(rows))
	for i, row := range rows {
		records[i] = row.Record()
	}
	return records
}

// Record converts the row to a FacilityRecord; absent columns become empty.
func (r Row) Record() entities.FacilityRecord {
	return entities.FacilityRecord{
		FacilityID:        r[entities.ColumnFacilityID],
		FacilityName:      r[entities.ColumnFacilityName],
		Address:           r[entities.ColumnAddress],
		City:              r[entities.ColumnCity],
		State:             r[entities.ColumnState],
		ZIPCode:           r[entities.ColumnZIPCode],
		County:            r[entities.ColumnCounty],
		Telephone:         r[entities.ColumnTelephone],
		HospitalType:      r[entities.ColumnHospitalType],
		HospitalOwnership: r[entities.ColumnHospitalOwnership],
		EmergencyServices: r[entities.ColumnEmergencyServices],
		OverallRating:     r[entities.ColumnOverallRating],
	}
}

// splitLine walks bytes so field bytes pass through unchanged, even when
// they are not valid UTF-8.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
