// Package export serializes statistics snapshots for download. These are
// plain data dumps; presentation fidelity is out of scope.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/laundry-service/internal/stats"
)

var summaryRows = []string{
	"total_tickets",
	"total_users",
	"tickets_received",
	"tickets_in_process",
	"tickets_ready",
	"tickets_delivered",
	"tickets_today",
	"tickets_this_week",
	"tickets_this_month",
	"pending_tickets",
	"completion_rate",
	"average_processing_hours",
}

func summaryValues(snap stats.Snapshot) []string {
	return []string{
		strconv.Itoa(snap.TotalTickets),
		strconv.Itoa(snap.TotalUsers),
		strconv.Itoa(snap.TicketsByState.Received),
		strconv.Itoa(snap.TicketsByState.InProcess),
		strconv.Itoa(snap.TicketsByState.Ready),
		strconv.Itoa(snap.TicketsByState.Delivered),
		strconv.Itoa(snap.TicketsToday),
		strconv.Itoa(snap.TicketsThisWeek),
		strconv.Itoa(snap.TicketsThisMonth),
		strconv.Itoa(snap.PendingTickets),
		fmt.Sprintf("%.2f", snap.CompletionRate),
		fmt.Sprintf("%.2f", snap.AverageProcessingTime),
	}
}

var userHeaders = []string{
	"user_id", "name", "dni", "company", "total_tickets", "total_items",
	"avg_items_per_ticket", "first_visit", "last_visit", "frequency",
	"avg_processing_hours", "loyalty_score",
}

func userRow(m stats.UserMetrics) []string {
	const dateFmt = "2006-01-02"
	return []string{
		m.UserID,
		m.UserName,
		m.UserDNI,
		m.Company,
		strconv.Itoa(m.TotalTickets),
		strconv.Itoa(m.TotalItems),
		fmt.Sprintf("%.2f", m.AverageItemsPerTicket),
		m.FirstVisit.Format(dateFmt),
		m.LastVisit.Format(dateFmt),
		fmt.Sprintf("%.2f", m.Frequency),
		fmt.Sprintf("%.2f", m.AverageProcessingTime),
		fmt.Sprintf("%.2f", m.LoyaltyScore),
	}
}

// StatisticsCSV renders the snapshot and per-user metrics as CSV: a
// key/value summary block, a blank line, then one row per customer.
func StatisticsCSV(snap stats.Snapshot, metrics []stats.UserMetrics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	values := summaryValues(snap)
	for i, key := range summaryRows {
		if err := w.Write([]string{key, values[i]}); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{}); err != nil {
		return nil, err
	}
	if err := w.Write(userHeaders); err != nil {
		return nil, err
	}
	for _, m := range metrics {
		if err := w.Write(userRow(m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// StatisticsXLSX renders the snapshot as a workbook with a summary sheet, a
// customers sheet and a top-items sheet.
func StatisticsXLSX(snap stats.Snapshot, metrics []stats.UserMetrics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Resumen"
	f.SetSheetName("Sheet1", summarySheet)

	values := summaryValues(snap)
	for i, key := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{key, values[i]}); err != nil {
			return nil, err
		}
	}

	const usersSheet = "Clientes"
	if _, err := f.NewSheet(usersSheet); err != nil {
		return nil, err
	}
	headers := make([]interface{}, len(userHeaders))
	for i, h := range userHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(usersSheet, "A1", &headers); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(usersSheet, "A1", "L1", style)
	}
	for i, m := range metrics {
		row := make([]interface{}, 0, len(userHeaders))
		for _, v := range userRow(m) {
			row = append(row, v)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(usersSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const itemsSheet = "Prendas"
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	items := make([]string, 0, len(snap.TopItems))
	for item := range snap.TopItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if snap.TopItems[items[i]] != snap.TopItems[items[j]] {
			return snap.TopItems[items[i]] > snap.TopItems[items[j]]
		}
		return items[i] < items[j]
	})
	if err := f.SetSheetRow(itemsSheet, "A1", &[]interface{}{"item", "quantity"}); err != nil {
		return nil, err
	}
	for i, item := range items {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(itemsSheet, cell, &[]interface{}{item, snap.TopItems[item]}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
