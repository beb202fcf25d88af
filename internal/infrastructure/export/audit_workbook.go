package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

// XLSXContentType is the MIME type of the generated workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet = "Claim"
	trailSheet   = "Audit Trail"

	// Trail rows start below the header row
	trailHeaderRow = 1
	trailRowStart  = 2
)

var trailColumns = []string{
	"Entry ID", "Timestamp", "Change Type", "Previous Status", "New Status",
	"Previous Requested", "New Requested", "Previous Approved", "New Approved",
	"Actor", "Role", "IP Address", "Comment",
}

// AuditWorkbookExporter writes a claim and its audit trail as an XLSX workbook
type AuditWorkbookExporter struct {
	logger *zap.Logger
}

// NewAuditWorkbookExporter creates a new AuditWorkbookExporter
func NewAuditWorkbookExporter(logger *zap.Logger) port.AuditExporter {
	return &AuditWorkbookExporter{logger: logger}
}

// ContentType implements port.AuditExporter
func (x *AuditWorkbookExporter) ContentType() string {
	return XLSXContentType
}

// Export renders the summary and trail sheets and streams the workbook to w
func (x *AuditWorkbookExporter) Export(ctx context.Context, c *entity.Claim, entries []*entity.AuditEntry, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	// The default sheet becomes the summary
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := x.fillSummary(file, c, len(entries)); err != nil {
		return fmt.Errorf("failed to fill summary: %w", err)
	}

	if _, err := file.NewSheet(trailSheet); err != nil {
		return fmt.Errorf("failed to create trail sheet: %w", err)
	}
	if err := x.fillTrail(ctx, file, entries); err != nil {
		return fmt.Errorf("failed to fill trail: %w", err)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	x.logger.Info("Audit trail exported",
		zap.String("claim_id", c.ID),
		zap.Int("entry_count", len(entries)))
	return nil
}

// fillSummary writes one label/value pair per row
func (x *AuditWorkbookExporter) fillSummary(file *excelize.File, c *entity.Claim, entryCount int) error {
	rows := [][2]interface{}{
		{"Claim ID", c.ID},
		{"Member ID", c.MemberID},
		{"Insurance Org", c.InsuranceOrgID},
		{"Claim Type", string(c.ClaimType)},
		{"Provider", c.ProviderName},
		{"Status", c.Status.String()},
		{"Requested Amount", c.RequestedAmount.String()},
		{"Approved Amount", moneyCell(c.ApprovedAmount)},
		{"Difference", moneyCell(c.DifferenceAmount)},
		{"Reviewer", c.ReviewerName},
		{"Payment Reference", c.PaymentReference},
		{"Version", c.Version},
		{"Audit Entries", entryCount},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(summarySheet, cell, &[]interface{}{row[0], row[1]}); err != nil {
			return fmt.Errorf("failed to set summary row %d: %w", i+1, err)
		}
	}

	return file.SetColWidth(summarySheet, "A", "B", 24)
}

// fillTrail writes the header and one row per audit entry, oldest first
func (x *AuditWorkbookExporter) fillTrail(ctx context.Context, file *excelize.File, entries []*entity.AuditEntry) error {
	header := make([]interface{}, len(trailColumns))
	for i, name := range trailColumns {
		header[i] = name
	}
	headerCell, _ := excelize.CoordinatesToCellName(1, trailHeaderRow)
	if err := file.SetSheetRow(trailSheet, headerCell, &header); err != nil {
		return fmt.Errorf("failed to set header: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(trailColumns), trailHeaderRow)
	if err := file.SetCellStyle(trailSheet, headerCell, lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := trailRowStart + i
		values := []interface{}{
			e.ID,
			e.Timestamp.UTC().Format(time.RFC3339),
			string(e.ChangeType),
			string(e.PreviousStatus),
			string(e.NewStatus),
			moneyCell(e.PreviousRequestedAmount),
			moneyCell(e.NewRequestedAmount),
			moneyCell(e.PreviousApprovedAmount),
			moneyCell(e.NewApprovedAmount),
			actorCell(e),
			e.ActorRole,
			e.IPAddress,
			e.Comment,
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetSheetRow(trailSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to set trail row %d: %w", row, err)
		}
	}

	return file.SetColWidth(trailSheet, "A", "M", 18)
}

func moneyCell(m *entity.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func actorCell(e *entity.AuditEntry) string {
	if e.ActorUsername != "" {
		return e.ActorUsername
	}
	return e.ActorUserID
}

// Verify interface compliance
var _ port.AuditExporter = (*AuditWorkbookExporter)(nil)
