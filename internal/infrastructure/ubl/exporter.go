// Package ubl exporta la factura como documento UBL 2.1 (EN 16931) para intercambio
// electrónico, con una huella SHA-256 de su forma canónica.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017"
	currency        = "EUR"
	invoiceTypeCode = "380" // factura comercial
	unitCode        = "C62" // unidad
	sepaTransfer    = "58"  // medio de pago: transferencia SEPA
	defaultCountry  = "IE"
)

// Exporter implementa billing.InvoiceXMLExporter.
type Exporter struct{}

var _ billing.InvoiceXMLExporter = (*Exporter)(nil)

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export devuelve el XML canónico (C14N 1.0) precedido de la declaración XML, y el
// SHA-256 en hexadecimal de la forma canónica.
func (e *Exporter) Export(doc *billing.InvoiceDocument) ([]byte, string, error) {
	if doc == nil || doc.Invoice == nil || doc.Company == nil || doc.Client == nil {
		return nil, "", fmt.Errorf("ubl: faltan factura, empresa o cliente")
	}
	raw, err := Build(doc).WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)

	out := make([]byte, 0, len(canonical)+40)
	out = append(out, xml.Header...)
	out = append(out, canonical...)
	return out, hex.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// Build construye el árbol UBL de la factura.
func Build(doc *billing.InvoiceDocument) *etree.Document {
	inv, t := doc.Invoice, doc.Totals

	d := etree.NewDocument()
	root := d.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", customizationID)
	cbc(root, "ID", inv.InvoiceNumber)
	cbc(root, "IssueDate", inv.IssueDate.Format(entity.DateLayout))
	if !inv.DueDate.IsZero() {
		cbc(root, "DueDate", inv.DueDate.Format(entity.DateLayout))
	}
	cbc(root, "InvoiceTypeCode", invoiceTypeCode)
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", currency)

	// ── Partes ────────────────────────────────────────────────────────────────
	c := doc.Company
	supplier := root.CreateElement("cac:AccountingSupplierParty")
	writeParty(supplier, party{
		name: c.Name, street: c.Address, city: c.City, postal: c.PostalCode, county: c.County,
		country: c.Country, vat: c.VATNumber, registration: c.CompanyRegistration,
		phone: c.Phone, email: c.Email,
	})

	cl := doc.Client
	vat := cl.VATNumber
	if vat == "" {
		vat = inv.VATNumber
	}
	customer := root.CreateElement("cac:AccountingCustomerParty")
	writeParty(customer, party{
		name: cl.Name, street: cl.Address, city: cl.City, postal: cl.PostalCode, county: cl.County,
		country: cl.Country, vat: vat, contact: cl.ContactPerson, phone: cl.Phone, email: cl.Email,
	})

	// ── Pago ──────────────────────────────────────────────────────────────────
	if c.IBAN != "" {
		pm := root.CreateElement("cac:PaymentMeans")
		cbc(pm, "PaymentMeansCode", sepaTransfer)
		cbc(pm, "PaymentID", inv.InvoiceNumber)
		acc := pm.CreateElement("cac:PayeeFinancialAccount")
		cbc(acc, "ID", strings.ToUpper(strings.ReplaceAll(c.IBAN, " ", "")))
		if c.BankName != "" {
			cbc(acc, "Name", c.BankName)
		}
	}
	if inv.PaymentTerms != "" {
		cbc(root.CreateElement("cac:PaymentTerms"), "Note", inv.PaymentTerms)
	}

	// ── Cargos y descuento a nivel de documento ──────────────────────────────
	charges := []struct {
		reason string
		amount decimal.Decimal
	}{
		{"Shipping", inv.ShippingCost},
		{"Handling", inv.HandlingCost},
		{nonEmpty(inv.OtherChargesDescription, "Other Charges"), inv.OtherCharges},
	}
	for _, ch := range charges {
		if !ch.amount.IsZero() {
			allowanceCharge(root, true, ch.reason, ch.amount, inv.VATRate)
		}
	}
	if !t.GlobalDiscountTotal.IsZero() {
		allowanceCharge(root, false, "Discount", t.GlobalDiscountTotal, inv.VATRate)
	}

	// ── Impuestos y totales ───────────────────────────────────────────────────
	tax := root.CreateElement("cac:TaxTotal")
	amount(tax, "TaxAmount", t.VATAmount)
	sub := tax.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", t.TotalBeforeVAT)
	amount(sub, "TaxAmount", t.VATAmount)
	taxCategory(sub, "cac:TaxCategory", inv.VATRate)

	mt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(mt, "LineExtensionAmount", t.Subtotal)
	amount(mt, "TaxExclusiveAmount", t.TotalBeforeVAT)
	amount(mt, "TaxInclusiveAmount", t.TotalAmount)
	if !t.GlobalDiscountTotal.IsZero() {
		amount(mt, "AllowanceTotalAmount", t.GlobalDiscountTotal)
	}
	if !t.AdditionalChargesTotal.IsZero() {
		amount(mt, "ChargeTotalAmount", t.AdditionalChargesTotal)
	}
	amount(mt, "PayableAmount", t.TotalAmount)

	// ── Líneas ────────────────────────────────────────────────────────────────
	for i, it := range inv.Items {
		lt := pricing.ComputeLineItemTotals(it)
		if i < len(doc.LineTotals) {
			lt = doc.LineTotals[i]
		}
		writeLine(root, i+1, it, lt, inv.VATRate)
	}

	d.Indent(2)
	return d
}

type party struct {
	name, street, city, postal, county, country string
	vat, registration, contact, phone, email    string
}

func writeParty(parent *etree.Element, p party) {
	el := parent.CreateElement("cac:Party")
	cbc(el.CreateElement("cac:PartyName"), "Name", p.name)

	addr := el.CreateElement("cac:PostalAddress")
	optional(addr, "StreetName", p.street)
	optional(addr, "CityName", p.city)
	optional(addr, "PostalZone", p.postal)
	optional(addr, "CountrySubentity", p.county)
	cbc(addr.CreateElement("cac:Country"), "IdentificationCode", countryCode(p.country))

	if p.vat != "" {
		ts := el.CreateElement("cac:PartyTaxScheme")
		cbc(ts, "CompanyID", strings.ToUpper(strings.ReplaceAll(p.vat, " ", "")))
		cbc(ts.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
	le := el.CreateElement("cac:PartyLegalEntity")
	cbc(le, "RegistrationName", p.name)
	optional(le, "CompanyID", p.registration)

	if p.contact != "" || p.phone != "" || p.email != "" {
		ct := el.CreateElement("cac:Contact")
		optional(ct, "Name", p.contact)
		optional(ct, "Telephone", p.phone)
		optional(ct, "ElectronicMail", p.email)
	}
}

func writeLine(root *etree.Element, n int, it entity.InvoiceItem, lt pricing.LineItemTotals, vatRate decimal.Decimal) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	q := cbc(line, "InvoicedQuantity", it.Quantity.String())
	q.CreateAttr("unitCode", unitCode)
	amount(line, "LineExtensionAmount", lt.LineTotal)

	cutting := decimal.NewFromInt(int64(it.CutsRequired)).Mul(it.CuttingChargePerCut)
	if !cutting.IsZero() {
		allowanceCharge(line, true, fmt.Sprintf("Cutting (%d cuts)", it.CutsRequired), cutting, decimal.Decimal{})
	}
	if !lt.TotalDiscount.IsZero() {
		allowanceCharge(line, false, "Discount", lt.TotalDiscount, decimal.Decimal{})
	}

	item := line.CreateElement("cac:Item")
	optional(item, "Description", it.Description)
	cbc(item, "Name", it.ProductName)
	if it.ProductID != "" {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", it.ProductID)
	}
	taxCategory(item, "cac:ClassifiedTaxCategory", vatRate)

	amount(line.CreateElement("cac:Price"), "PriceAmount", it.UnitPrice)
}

// allowanceCharge agrega un cargo (charge=true) o descuento. vatRate cero omite la categoría
// (las líneas la heredan del ítem).
func allowanceCharge(parent *etree.Element, charge bool, reason string, value, vatRate decimal.Decimal) {
	ac := parent.CreateElement("cac:AllowanceCharge")
	cbc(ac, "ChargeIndicator", strconv.FormatBool(charge))
	cbc(ac, "AllowanceChargeReason", reason)
	amount(ac, "Amount", value)
	if !vatRate.IsZero() {
		taxCategory(ac, "cac:TaxCategory", vatRate)
	}
}

func taxCategory(parent *etree.Element, tag string, rate decimal.Decimal) {
	tc := parent.CreateElement(tag)
	id := "S" // tipo general
	if rate.IsZero() {
		id = "Z"
	}
	cbc(tc, "ID", id)
	cbc(tc, "Percent", rate.StringFixed(2))
	cbc(tc.CreateElement("cac:TaxScheme"), "ID", "VAT")
}

func cbc(parent *etree.Element, name, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + name)
	el.SetText(value)
	return el
}

func optional(parent *etree.Element, name, value string) {
	if value != "" {
		cbc(parent, name, value)
	}
}

func amount(parent *etree.Element, name string, v decimal.Decimal) {
	cbc(parent, name, v.StringFixed(2)).CreateAttr("currencyID", currency)
}

// countryCode ISO 3166-1 alfa-2 de los países habituales; por defecto IE.
func countryCode(country string) string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "", "ireland", "ie", "éire":
		return defaultCountry
	case "united kingdom", "uk", "gb", "northern ireland":
		return "GB"
	case "france", "fr":
		return "FR"
	case "germany", "de":
		return "DE"
	case "netherlands", "nl":
		return "NL"
	case "belgium", "be":
		return "BE"
	case "spain", "es":
		return "ES"
	}
	if len(country) == 2 {
		return strings.ToUpper(country)
	}
	return defaultCountry
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
