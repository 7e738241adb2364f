package filestore

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Los registros guardan los importes como números JSON y las fechas como texto,
// con las mismas claves que los archivos de la versión de escritorio.

// TimestampLayout ISO-8601 sin zona (hora local), con microsegundos.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	entity.DateLayout,
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(TimestampLayout)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entity.DateLayout)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		// Se toleran fechas con hora.
		if ts := parseTimestamp(s); !ts.IsZero() {
			return entity.DateOnly(ts)
		}
		return time.Time{}
	}
	return t
}

// amount importe escrito como número JSON con el texto exacto del decimal, sin pasar
// por float64. Acepta también números entre comillas.
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = amount(d)
	return nil
}

func num(d decimal.Decimal) amount { return amount(d) }

func dec(a amount) decimal.Decimal { return decimal.Decimal(a) }

// ── Empresa ──────────────────────────────────────────────────────────────────

type companyRecord struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	City                string `json:"city"`
	County              string `json:"county"`
	PostalCode          string `json:"postal_code"`
	Country             string `json:"country"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Website             string `json:"website"`
	VATNumber           string `json:"vat_number"`
	CompanyRegistration string `json:"company_registration"`
	BankName            string `json:"bank_name"`
	BankAccount         string `json:"bank_account"`
	BankSortCode        string `json:"bank_sort_code"`
	IBAN                string `json:"iban"`
}

func companyToRecord(c *entity.Company) companyRecord {
	return companyRecord(*c)
}

func (r companyRecord) toEntity() *entity.Company {
	c := entity.Company(r)
	return &c
}

// ── Cliente ──────────────────────────────────────────────────────────────────

type clientRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Address       string `json:"address"`
	City          string `json:"city"`
	County        string `json:"county"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	VATNumber     string `json:"vat_number"`
	PaymentTerms  string `json:"payment_terms"`
	CreditLimit   amount `json:"credit_limit"`
	Notes         string `json:"notes"`
	CreatedDate   string `json:"created_date"`
}

func clientToRecord(c *entity.Client) clientRecord {
	return clientRecord{
		ID:            c.ID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Address:       c.Address,
		City:          c.City,
		County:        c.County,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		Phone:         c.Phone,
		Email:         c.Email,
		VATNumber:     c.VATNumber,
		PaymentTerms:  c.PaymentTerms,
		CreditLimit:   num(c.CreditLimit),
		Notes:         c.Notes,
		CreatedDate:   formatTimestamp(c.CreatedDate),
	}
}

func (r clientRecord) toEntity() *entity.Client {
	return &entity.Client{
		ID:            r.ID,
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Address:       r.Address,
		City:          r.City,
		County:        r.County,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Phone:         r.Phone,
		Email:         r.Email,
		VATNumber:     r.VATNumber,
		PaymentTerms:  r.PaymentTerms,
		CreditLimit:   dec(r.CreditLimit),
		Notes:         r.Notes,
		CreatedDate:   parseTimestamp(r.CreatedDate),
	}
}

// ── Producto ─────────────────────────────────────────────────────────────────

type productRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Grade            string `json:"grade"`
	Dimensions       string `json:"dimensions"`
	WeightPerUnit    amount `json:"weight_per_unit"`
	BasePrice        amount `json:"base_price"`
	CuttingCharge    amount `json:"cutting_charge"`
	UnitOfMeasure    string `json:"unit_of_measure"`
	Finish           string `json:"finish"`
	StockQuantity    int    `json:"stock_quantity"`
	MinOrderQuantity int    `json:"min_order_quantity"`
	IsCuttable       bool   `json:"is_cuttable"`
	IsActive         bool   `json:"is_active"`
}

func productToRecord(p *entity.Product) productRecord {
	return productRecord{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Grade:            p.Grade,
		Dimensions:       p.Dimensions,
		WeightPerUnit:    num(p.WeightPerUnit),
		BasePrice:        num(p.BasePrice),
		CuttingCharge:    num(p.CuttingCharge),
		UnitOfMeasure:    p.UnitOfMeasure,
		Finish:           p.Finish,
		StockQuantity:    p.StockQuantity,
		MinOrderQuantity: p.MinOrderQuantity,
		IsCuttable:       p.IsCuttable,
		IsActive:         p.IsActive,
	}
}

func (r productRecord) toEntity() *entity.Product {
	return &entity.Product{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		Grade:            r.Grade,
		Dimensions:       r.Dimensions,
		WeightPerUnit:    dec(r.WeightPerUnit),
		BasePrice:        dec(r.BasePrice),
		CuttingCharge:    dec(r.CuttingCharge),
		UnitOfMeasure:    r.UnitOfMeasure,
		Finish:           r.Finish,
		StockQuantity:    r.StockQuantity,
		MinOrderQuantity: r.MinOrderQuantity,
		IsCuttable:       r.IsCuttable,
		IsActive:         r.IsActive,
	}
}

// ── Factura ──────────────────────────────────────────────────────────────────

type invoiceItemRecord struct {
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	Description         string `json:"description"`
	Quantity            amount `json:"quantity"`
	UnitPrice           amount `json:"unit_price"`
	CutsRequired        int    `json:"cuts_required"`
	CuttingChargePerCut amount `json:"cutting_charge_per_cut"`
	DiscountPercentage  amount `json:"discount_percentage"`
	DiscountAmount      amount `json:"discount_amount"`
}

type invoiceRecord struct {
	ID                       string              `json:"id"`
	InvoiceNumber            string              `json:"invoice_number"`
	ClientID                 string              `json:"client_id"`
	ClientName               string              `json:"client_name"`
	IssueDate                string              `json:"issue_date"`
	DueDate                  string              `json:"due_date"`
	Status                   string              `json:"status"`
	Items                    []invoiceItemRecord `json:"items"`
	ShippingCost             amount              `json:"shipping_cost"`
	HandlingCost             amount              `json:"handling_cost"`
	OtherCharges             amount              `json:"other_charges"`
	OtherChargesDescription  string              `json:"other_charges_description"`
	GlobalDiscountPercentage amount              `json:"global_discount_percentage"`
	GlobalDiscountAmount     amount              `json:"global_discount_amount"`
	VATRate                  amount              `json:"vat_rate"`
	VATNumber                string              `json:"vat_number"`
	PaymentTerms             string              `json:"payment_terms"`
	Notes                    string              `json:"notes"`
	CreatedDate              string              `json:"created_date"`
	LastModified             string              `json:"last_modified"`
}

func invoiceToRecord(inv *entity.Invoice) invoiceRecord {
	r := invoiceRecord{
		ID:                       inv.ID,
		InvoiceNumber:            inv.InvoiceNumber,
		ClientID:                 inv.ClientID,
		ClientName:               inv.ClientName,
		IssueDate:                formatDate(inv.IssueDate),
		DueDate:                  formatDate(inv.DueDate),
		Status:                   string(inv.Status),
		Items:                    make([]invoiceItemRecord, 0, len(inv.Items)),
		ShippingCost:             num(inv.ShippingCost),
		HandlingCost:             num(inv.HandlingCost),
		OtherCharges:             num(inv.OtherCharges),
		OtherChargesDescription:  inv.OtherChargesDescription,
		GlobalDiscountPercentage: num(inv.GlobalDiscountPercentage),
		GlobalDiscountAmount:     num(inv.GlobalDiscountAmount),
		VATRate:                  num(inv.VATRate),
		VATNumber:                inv.VATNumber,
		PaymentTerms:             inv.PaymentTerms,
		Notes:                    inv.Notes,
		CreatedDate:              formatTimestamp(inv.CreatedDate),
		LastModified:             formatTimestamp(inv.LastModified),
	}
	for _, it := range inv.Items {
		r.Items = append(r.Items, invoiceItemRecord{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Description:         it.Description,
			Quantity:            num(it.Quantity),
			UnitPrice:           num(it.UnitPrice),
			CutsRequired:        it.CutsRequired,
			CuttingChargePerCut: num(it.CuttingChargePerCut),
			DiscountPercentage:  num(it.DiscountPercentage),
			DiscountAmount:      num(it.DiscountAmount),
		})
	}
	return r
}

func (r invoiceRecord) toEntity() *entity.Invoice {
	inv := &entity.Invoice{
		ID:                       r.ID,
		InvoiceNumber:            r.InvoiceNumber,
		ClientID:                 r.ClientID,
		ClientName:               r.ClientName,
		IssueDate:                parseDate(r.IssueDate),
		DueDate:                  parseDate(r.DueDate),
		Status:                   entity.InvoiceStatus(r.Status),
		ShippingCost:             dec(r.ShippingCost),
		HandlingCost:             dec(r.HandlingCost),
		OtherCharges:             dec(r.OtherCharges),
		OtherChargesDescription:  r.OtherChargesDescription,
		GlobalDiscountPercentage: dec(r.GlobalDiscountPercentage),
		GlobalDiscountAmount:     dec(r.GlobalDiscountAmount),
		VATRate:                  dec(r.VATRate),
		VATNumber:                r.VATNumber,
		PaymentTerms:             r.PaymentTerms,
		Notes:                    r.Notes,
		CreatedDate:              parseTimestamp(r.CreatedDate),
		LastModified:             parseTimestamp(r.LastModified),
	}
	if inv.Status == "" {
		inv.Status = entity.InvoiceStatusDraft
	}
	for _, it := range r.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Description:         it.Description,
			Quantity:            dec(it.Quantity),
			UnitPrice:           dec(it.UnitPrice),
			CutsRequired:        it.CutsRequired,
			CuttingChargePerCut: dec(it.CuttingChargePerCut),
			DiscountPercentage:  dec(it.DiscountPercentage),
			DiscountAmount:      dec(it.DiscountAmount),
		})
	}
	return inv
}

// ── Valores por defecto para claves ausentes ─────────────────────────────────

func (r *companyRecord) UnmarshalJSON(b []byte) error {
	type plain companyRecord
	p := plain{Country: entity.DefaultCountry}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = companyRecord(p)
	return nil
}

func (r *clientRecord) UnmarshalJSON(b []byte) error {
	type plain clientRecord
	p := plain{Country: entity.DefaultCountry, PaymentTerms: entity.DefaultPaymentTerms}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = clientRecord(p)
	return nil
}

func (r *productRecord) UnmarshalJSON(b []byte) error {
	type plain productRecord
	p := plain{
		Category:         entity.DefaultProductCategory,
		UnitOfMeasure:    entity.DefaultUnitOfMeasure,
		Finish:           entity.DefaultFinish,
		MinOrderQuantity: 1,
		IsCuttable:       true,
		IsActive:         true,
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = productRecord(p)
	return nil
}

func (r *invoiceRecord) UnmarshalJSON(b []byte) error {
	type plain invoiceRecord
	p := plain{
		Status:       string(entity.InvoiceStatusDraft),
		VATRate:      amount(entity.DefaultVATRate),
		PaymentTerms: entity.DefaultPaymentTerms,
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = invoiceRecord(p)
	return nil
}
