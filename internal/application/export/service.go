package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	appcommission "github.com/commtrack/backend/internal/application/commission"
	"github.com/commtrack/backend/internal/domain/shared"
)

const sheetName = "Commissions"

// Artifact is a generated spreadsheet ready to stream as an attachment
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service renders the current filtered, sorted entry view as an XLSX
// workbook. The view semantics live in the entry service; this layer only
// lays out rows and refuses unreasonable exports.
type Service struct {
	entries *appcommission.EntryService
	maxRows int
	logger  *zap.Logger
}

// NewService creates an export service
func NewService(entries *appcommission.EntryService, maxRows int, logger *zap.Logger) *Service {
	return &Service{entries: entries, maxRows: maxRows, logger: logger}
}

// Export builds the workbook for the actor's current view.
// An empty view or one above the row limit produces no file.
func (s *Service) Export(ctx context.Context, actorID uuid.UUID, input appcommission.ListInput) (*Artifact, error) {
	view, err := s.entries.List(ctx, actorID, input)
	if err != nil {
		return nil, err
	}

	if len(view.Entries) == 0 {
		return nil, shared.NewDomainError("EXPORT_EMPTY", "There are no entries to export")
	}
	if s.maxRows > 0 && len(view.Entries) > s.maxRows {
		return nil, shared.NewDomainError("EXPORT_TOO_LARGE",
			fmt.Sprintf("Export is limited to %d rows", s.maxRows))
	}

	data, err := s.render(view)
	if err != nil {
		s.logger.Error("Failed to render export", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render the export file")
	}

	s.logger.Info("Export generated",
		zap.String("actor_id", actorID.String()),
		zap.Int("rows", len(view.Entries)),
	)

	return &Artifact{
		FileName:    FileName(input.MonthPrefix),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// FileName derives the download name from the active month filter
func FileName(monthPrefix string) string {
	if monthPrefix == "" {
		return "commissions-all.xlsx"
	}
	return fmt.Sprintf("commissions-%s.xlsx", monthPrefix)
}

func (s *Service) render(view *appcommission.ListResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// The owner column only appears when the view spans multiple users
	headers := []interface{}{}
	if view.MultipleOwners {
		headers = append(headers, "Owner")
	}
	headers = append(headers,
		"Invoice Number", "Receipt Number", "Customer", "Project",
		"Amount Before VAT", "Cost Before VAT", "Tax", "Commission Rate (%)",
		"Net Total", "Net To Pay", "Invoice Month",
		"Client Paid Date", "Company Paid Date", "Status", "Note",
	)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	var sumAmount, sumCost, sumTax, sumNetTotal, sumNetToPay decimal.Decimal
	for i, e := range view.Entries {
		row := []interface{}{}
		if view.MultipleOwners {
			row = append(row, e.OwnerName)
		}
		row = append(row,
			e.InvoiceNumber,
			e.ReceiptNumber,
			e.Customer,
			e.Project,
			toFloat(e.AmountBeforeVAT),
			toFloat(e.CostBeforeVAT),
			toFloat(e.Tax),
			toFloat(e.CommissionRate),
			toFloat(e.NetTotal),
			toFloat(e.NetToPay),
			e.InvoiceMonth.Format("2006-01"),
			formatDate(e.ClientPaidDate),
			formatDate(e.CompanyPaidDate),
			string(e.Status),
			e.Note,
		)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}

		sumAmount = sumAmount.Add(e.AmountBeforeVAT)
		sumCost = sumCost.Add(e.CostBeforeVAT)
		sumTax = sumTax.Add(e.Tax)
		sumNetTotal = sumNetTotal.Add(e.NetTotal)
		sumNetToPay = sumNetToPay.Add(e.NetToPay)
	}

	// Only numeric columns carry values in the totals row; text columns
	// stay blank.
	totals := []interface{}{}
	if view.MultipleOwners {
		totals = append(totals, "")
	}
	totals = append(totals,
		"", "", "", "",
		toFloat(sumAmount), toFloat(sumCost), toFloat(sumTax), "",
		toFloat(sumNetTotal), toFloat(sumNetToPay),
		"", "", "", "", "",
	)
	totalsRow := len(view.Entries) + 2
	cell, err := excelize.CoordinatesToCellName(1, totalsRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return nil, err
	}

	// Money columns start after the four text columns, optionally shifted
	// by the owner column
	firstMoney := 5
	if view.MultipleOwners {
		firstMoney++
	}
	start, err := excelize.CoordinatesToCellName(firstMoney, 2)
	if err != nil {
		return nil, err
	}
	end, err := excelize.CoordinatesToCellName(firstMoney+5, totalsRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, start, end, moneyStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toFloat converts for cell storage; rounding to two decimals happens here,
// at presentation time only
func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func strPtr(s string) *string {
	return &s
}
