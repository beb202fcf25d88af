package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

func TestAuditWorkbookExporter_Export(t *testing.T) {
	ctx := context.Background()
	exporter := NewAuditWorkbookExporter(zap.NewNop())
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	c := &entity.Claim{
		ID:              "claim-1",
		MemberID:        "M-100",
		InsuranceOrgID:  "ORG-7",
		ClaimType:       entity.ClaimTypeOutpatient,
		ProviderName:    "City Clinic",
		Status:          workflow.StatusApproved,
		RequestedAmount: entity.MustParseMoney("1000"),
		ApprovedAmount:  entity.MustParseMoney("800").Ptr(),
		Version:         4,
	}
	entries := []*entity.AuditEntry{
		{
			ID:                 1,
			ClaimID:            c.ID,
			ChangeType:         entity.ChangeTypeCreated,
			NewStatus:          workflow.StatusDraft,
			NewRequestedAmount: entity.MustParseMoney("1000").Ptr(),
			ActorUsername:      "alice",
			ActorRole:          "SUBMITTER",
			Timestamp:          ts,
		},
		{
			ID:                4,
			ClaimID:           c.ID,
			ChangeType:        entity.ChangeTypeApproval,
			PreviousStatus:    workflow.StatusUnderReview,
			NewStatus:         workflow.StatusApproved,
			NewApprovedAmount: entity.MustParseMoney("800").Ptr(),
			ActorUserID:       "u-2",
			ActorRole:         "REVIEWER",
			IPAddress:         "10.0.0.2",
			Timestamp:         ts.Add(time.Hour),
			Comment:           "Claim approved",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(ctx, c, entries, &buf))
	assert.Equal(t, XLSXContentType, exporter.ContentType())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, trailSheet}, f.GetSheetList())

	t.Run("summary sheet", func(t *testing.T) {
		id, _ := f.GetCellValue(summarySheet, "B1")
		assert.Equal(t, "claim-1", id)
		status, _ := f.GetCellValue(summarySheet, "B6")
		assert.Equal(t, "APPROVED", status)
		approved, _ := f.GetCellValue(summarySheet, "B8")
		assert.Equal(t, "800.00", approved)
		count, _ := f.GetCellValue(summarySheet, "B13")
		assert.Equal(t, "2", count)
	})

	t.Run("trail sheet", func(t *testing.T) {
		rows, err := f.GetRows(trailSheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "Change Type", rows[0][2])

		assert.Equal(t, "1", rows[1][0])
		assert.Equal(t, "2026-03-14T09:30:00Z", rows[1][1])
		assert.Equal(t, "CREATED", rows[1][2])
		assert.Equal(t, "1000.00", rows[1][6])
		assert.Equal(t, "alice", rows[1][9])

		assert.Equal(t, "APPROVAL", rows[2][2])
		assert.Equal(t, "UNDER_REVIEW", rows[2][3])
		assert.Equal(t, "800.00", rows[2][8])
		assert.Equal(t, "u-2", rows[2][9], "falls back to user id")
		assert.Equal(t, "Claim approved", rows[2][12])
	})
}

func TestAuditWorkbookExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []*entity.AuditEntry{{ID: 1, ChangeType: entity.ChangeTypeCreated}}
	var buf bytes.Buffer

	err := NewAuditWorkbookExporter(zap.NewNop()).Export(ctx, &entity.Claim{ID: "c"}, entries, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
