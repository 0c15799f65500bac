// Package parsing turns uploaded delimited text into validated assignments
// plus line-numbered diagnostics for every rejected row.
package parsing

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pair-engine/internal/model"
)

const (
	minColumns   = 4
	maxLineBytes = 1 << 20
	previewBytes = 256
	utf8BOM      = "\ufeff"
)

// Result is the outcome of parsing one upload. Valid contains only rows that
// passed every check; Rows echoes every non-blank data line.
type Result struct {
	Valid  []model.Assignment
	Rows   []model.ParsedRow
	Errors []model.RowError
}

// Parser reads "EmployeeID, ProjectID, DateFrom, DateTo" lines. An optional
// header is skipped when the first record's ID columns are not integers.
type Parser struct {
	// Today resolves the NULL date. Defaults to time.Now.
	Today func() time.Time
}

func (p *Parser) today() time.Time {
	if p.Today != nil {
		return p.Today()
	}
	return time.Now()
}

// Parse reads r to the end. Row problems are reported in Result.Errors; the
// returned error is only set for I/O failures and cancellation.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	res := &Result{
		Valid:  []model.Assignment{},
		Rows:   []model.ParsedRow{},
		Errors: []model.RowError{},
	}

	lr := newLineReader(r)
	lineNumber := 0
	firstRecord := true
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, tooLong, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", lineNumber+1, err)
		}
		lineNumber++

		if lineNumber == 1 {
			raw = strings.TrimPrefix(raw, utf8BOM)
		}
		if tooLong {
			firstRecord = false
			rejectLongLine(res, lineNumber, raw)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		isFirst := firstRecord
		firstRecord = false

		p.parseLine(res, lineNumber, raw, isFirst)
	}
	return res, nil
}

func (p *Parser) parseLine(res *Result, lineNumber int, raw string, isFirst bool) {
	cols := strings.Split(raw, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	reject := func(row model.ParsedRow, msg string) {
		row.IsValid = false
		row.Error = msg
		res.Rows = append(res.Rows, row)
		res.Errors = append(res.Errors, model.RowError{LineNumber: lineNumber, RawLine: raw, Message: msg})
	}

	if len(cols) < minColumns {
		reject(model.ParsedRow{DateFromRaw: column(cols, 2), DateToRaw: column(cols, 3)}, model.ErrNotEnoughColumns)
		return
	}

	employeeID, errEmp := strconv.Atoi(cols[0])
	projectID, errProj := strconv.Atoi(cols[1])
	if errEmp != nil || errProj != nil {
		if isFirst {
			return
		}
		reject(model.ParsedRow{DateFromRaw: cols[2], DateToRaw: cols[3]}, model.ErrInvalidIDs)
		return
	}

	row := model.ParsedRow{
		EmployeeID:  &employeeID,
		ProjectID:   &projectID,
		DateFromRaw: cols[2],
		DateToRaw:   cols[3],
	}

	from, okFrom := parseDate(cols[2], p.today)
	to, okTo := parseDate(cols[3], p.today)
	if !okFrom || !okTo || from > to {
		reject(row, model.ErrInvalidDate)
		return
	}

	row.IsValid = true
	res.Rows = append(res.Rows, row)
	res.Valid = append(res.Valid, model.Assignment{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		DateFrom:   from,
		DateTo:     to,
	})
}

func rejectLongLine(res *Result, lineNumber int, raw string) {
	preview := raw
	if len(preview) > previewBytes {
		preview = preview[:previewBytes] + "..."
	}
	res.Rows = append(res.Rows, model.ParsedRow{IsValid: false, Error: model.ErrLineTooLong})
	res.Errors = append(res.Errors, model.RowError{LineNumber: lineNumber, RawLine: preview, Message: model.ErrLineTooLong})
}

func column(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
