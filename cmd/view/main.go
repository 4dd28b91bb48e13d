// Command view prints the reporting summary for the store: row counts,
// transaction and chargeback aggregates, the full case listing, and the
// event/risk breakdowns.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"chargeflow/config"
	"chargeflow/db"
	"chargeflow/report"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	svc := report.NewService(pool)

	counts, err := svc.TableCounts(ctx)
	if err != nil {
		log.Fatalf("table counts: %v", err)
	}
	fmt.Println("=== Table Counts ===")
	w := newTabWriter()
	fmt.Fprintf(w, "customers\t%d\n", counts.Customers)
	fmt.Fprintf(w, "merchants\t%d\n", counts.Merchants)
	fmt.Fprintf(w, "transactions\t%d\n", counts.Transactions)
	fmt.Fprintf(w, "chargebacks\t%d\n", counts.Chargebacks)
	fmt.Fprintf(w, "case_events\t%d\n", counts.CaseEvents)
	w.Flush()

	txStats, err := svc.TransactionStats(ctx)
	if err != nil {
		log.Fatalf("transaction stats: %v", err)
	}
	fmt.Println("\n=== Transaction Statistics ===")
	w = newTabWriter()
	fmt.Fprintf(w, "total transactions\t%d\n", txStats.Count)
	fmt.Fprintf(w, "unique customers\t%d\n", txStats.UniqueCustomers)
	fmt.Fprintf(w, "unique merchants\t%d\n", txStats.UniqueMerchants)
	fmt.Fprintf(w, "total amount\t$%.2f\n", txStats.TotalAmount)
	fmt.Fprintf(w, "average amount\t$%.2f\n", txStats.AvgAmount)
	fmt.Fprintf(w, "min / max\t$%.2f / $%.2f\n", txStats.MinAmount, txStats.MaxAmount)
	w.Flush()

	cbStats, err := svc.ChargebackStats(ctx)
	if err != nil {
		log.Fatalf("chargeback stats: %v", err)
	}
	fmt.Println("\n=== Chargeback Statistics ===")
	w = newTabWriter()
	fmt.Fprintf(w, "total\t%d\n", cbStats.Total)
	fmt.Fprintf(w, "open\t%d\n", cbStats.Open)
	fmt.Fprintf(w, "under review\t%d\n", cbStats.UnderReview)
	fmt.Fprintf(w, "won\t%d\n", cbStats.Won)
	fmt.Fprintf(w, "lost\t%d\n", cbStats.Lost)
	fmt.Fprintf(w, "disputed amount\t$%.2f\n", cbStats.TotalAmount)
	w.Flush()

	listing, err := svc.Listing(ctx)
	if err != nil {
		log.Fatalf("chargeback listing: %v", err)
	}
	fmt.Println("\n=== Chargeback Cases ===")
	w = newTabWriter()
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tTYPE\tAMOUNT\tSTATUS\tOUTCOME\tCUSTOMER\tMERCHANT")
	for _, row := range listing {
		outcome := "-"
		if row.Outcome != nil {
			outcome = *row.Outcome
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.2f\t%s\t%s\t%s\t%s\n",
			row.ChargebackID, row.DisputeDate.Format("2006-01-02"), row.Category,
			row.DisputeType, row.Amount, row.Status, outcome, row.CustomerName, row.MerchantName)
	}
	w.Flush()

	eventCounts, err := svc.EventTypeCounts(ctx)
	if err != nil {
		log.Fatalf("event type counts: %v", err)
	}
	fmt.Println("\n=== Case Events by Type ===")
	w = newTabWriter()
	for _, c := range eventCounts {
		fmt.Fprintf(w, "%s\t%d\n", c.EventType, c.Count)
	}
	w.Flush()

	risk, err := svc.RiskLevelBreakdown(ctx)
	if err != nil {
		log.Fatalf("risk breakdown: %v", err)
	}
	fmt.Println("\n=== Transactions by Risk Level ===")
	w = newTabWriter()
	fmt.Fprintln(w, "RISK\tCOUNT\tAVG SCORE\tTOTAL AMOUNT")
	for _, st := range risk {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t$%.2f\n", st.RiskLevel, st.Count, st.AvgFraudScore, st.TotalAmount)
	}
	w.Flush()
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
