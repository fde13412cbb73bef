// Package report serializes aggregated results and order records for
// export and re-import.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

var csvHeader = []string{"date", "subject", "sender", "vendor", "amount"}

const csvDateLayout = "2006-01-02"

// WriteOrdersCSV writes order records in the export column order.
func WriteOrdersCSV(w io.Writer, orders []model.OrderRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, order := range orders {
		record := []string{
			order.Date.Format(csvDateLayout),
			order.Subject,
			order.Sender,
			order.Vendor,
			strconv.FormatFloat(order.Amount, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadOrdersCSV parses previously exported order records back into
// aggregation input. Rows that fail to parse are skipped, mirroring the
// aggregation engine's dropped-record policy.
func ReadOrdersCSV(r io.Reader) ([]model.OrderRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}

	var orders []model.OrderRecord
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		date, err := time.Parse(csvDateLayout, record[0])
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			continue
		}

		orders = append(orders, model.OrderRecord{
			Date:    date,
			Subject: record[1],
			Sender:  record[2],
			Vendor:  record[3],
			Amount:  amount,
		})
	}

	return orders, nil
}
