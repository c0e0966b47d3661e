package models

import (
	"time"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryModel is the persistence model for the commission Entry aggregate.
// Derived fields (net_total, net_to_pay) are stored for querying; ToDomain
// recomputes them so column precision never leaks into the domain.
type EntryModel struct {
	AggregateModel
	OwnerID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	InvoiceNumber   string            `gorm:"type:varchar(100);not null;index"`
	ReceiptNumber   string            `gorm:"type:varchar(100)"`
	Customer        string            `gorm:"type:varchar(200)"`
	Project         string            `gorm:"type:text"`
	AmountBeforeVAT decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0"`
	CostBeforeVAT   decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0"`
	Tax             decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0"`
	CommissionRate  decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0"`
	NetTotal        decimal.Decimal   `gorm:"type:decimal(14,4);not null;default:0"`
	NetToPay        decimal.Decimal   `gorm:"type:decimal(14,4);not null;default:0"`
	InvoiceMonth    time.Time         `gorm:"not null;index"`
	ClientPaidDate  *time.Time
	CompanyPaidDate *time.Time
	Status          commission.Status `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	Note            string            `gorm:"type:text"`
	FileKey         string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "commission_entries"
}

// ToDomain converts the persistence model to a domain Entry aggregate.
func (m *EntryModel) ToDomain() *commission.Entry {
	e := &commission.Entry{
		OwnerID:         m.OwnerID,
		InvoiceNumber:   m.InvoiceNumber,
		ReceiptNumber:   m.ReceiptNumber,
		Customer:        m.Customer,
		Project:         m.Project,
		AmountBeforeVAT: m.AmountBeforeVAT,
		CostBeforeVAT:   m.CostBeforeVAT,
		Tax:             m.Tax,
		CommissionRate:  m.CommissionRate,
		NetTotal:        m.NetTotal,
		NetToPay:        m.NetToPay,
		InvoiceMonth:    m.InvoiceMonth,
		ClientPaidDate:  m.ClientPaidDate,
		CompanyPaidDate: m.CompanyPaidDate,
		Status:          m.Status,
		Note:            m.Note,
		FileKey:         m.FileKey,
	}
	m.PopulateAggregateRoot(&e.BaseAggregateRoot)
	e.RefreshDerived()
	return e
}

// FromDomain populates the persistence model from a domain Entry aggregate.
func (m *EntryModel) FromDomain(e *commission.Entry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.OwnerID = e.OwnerID
	m.InvoiceNumber = e.InvoiceNumber
	m.ReceiptNumber = e.ReceiptNumber
	m.Customer = e.Customer
	m.Project = e.Project
	m.AmountBeforeVAT = e.AmountBeforeVAT
	m.CostBeforeVAT = e.CostBeforeVAT
	m.Tax = e.Tax
	m.CommissionRate = e.CommissionRate
	m.NetTotal = e.NetTotal
	m.NetToPay = e.NetToPay
	m.InvoiceMonth = e.InvoiceMonth
	m.ClientPaidDate = e.ClientPaidDate
	m.CompanyPaidDate = e.CompanyPaidDate
	m.Status = e.Status
	m.Note = e.Note
	m.FileKey = e.FileKey
}

// EntryModelFromDomain creates a new persistence model from a domain Entry aggregate.
func EntryModelFromDomain(e *commission.Entry) *EntryModel {
	m := &EntryModel{}
	m.FromDomain(e)
	return m
}
