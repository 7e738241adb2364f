package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Cabecera en invoices, líneas en invoice_items ordenadas por position.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, client_id, client_name, issue_date, due_date, status,
	shipping_cost, handling_cost, other_charges, other_charges_description,
	global_discount_percentage, global_discount_amount, vat_rate, vat_number,
	payment_terms, notes, created_date, last_modified`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var issue, due *time.Time
	var status string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName, &issue, &due, &status,
		&inv.ShippingCost, &inv.HandlingCost, &inv.OtherCharges, &inv.OtherChargesDescription,
		&inv.GlobalDiscountPercentage, &inv.GlobalDiscountAmount, &inv.VATRate, &inv.VATNumber,
		&inv.PaymentTerms, &inv.Notes, &inv.CreatedDate, &inv.LastModified,
	)
	if err != nil {
		return nil, err
	}
	inv.IssueDate = derefTime(issue)
	inv.DueDate = derefTime(due)
	inv.Status = entity.InvoiceStatus(status)
	inv.Items = []entity.InvoiceItem{}
	return &inv, nil
}

// Create persiste cabecera e ítems en una sola transacción.
// domain.ErrDuplicate si el ID o el número de factura ya existen.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
		_, err := tx.Exec(ctx, query,
			inv.ID, inv.InvoiceNumber, inv.ClientID, inv.ClientName, nullDate(inv.IssueDate), nullDate(inv.DueDate), string(inv.Status),
			inv.ShippingCost, inv.HandlingCost, inv.OtherCharges, inv.OtherChargesDescription,
			inv.GlobalDiscountPercentage, inv.GlobalDiscountAmount, inv.VATRate, inv.VATNumber,
			inv.PaymentTerms, inv.Notes, inv.CreatedDate, inv.LastModified,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		return insertItems(ctx, tx, inv.ID, inv.Items)
	})
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO invoice_items (invoice_id, position, product_id, product_name, description, quantity,
		                           unit_price, cuts_required, cutting_charge_per_cut, discount_percentage, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(query,
			invoiceID, i, it.ProductID, it.ProductName, it.Description, it.Quantity,
			it.UnitPrice, it.CutsRequired, it.CuttingChargePerCut, it.DiscountPercentage, it.DiscountAmount,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	byInvoice, err := r.loadItems(ctx, `WHERE invoice_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if items, ok := byInvoice[id]; ok {
		inv.Items = items
	}
	return inv, nil
}

// List devuelve todas las facturas con sus ítems, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	byInvoice, err := r.loadItems(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		if items, ok := byInvoice[inv.ID]; ok {
			inv.Items = items
		}
	}
	return list, nil
}

// loadItems agrupa las líneas por factura respetando su posición.
func (r *InvoiceRepo) loadItems(ctx context.Context, where string, args ...any) (map[string][]entity.InvoiceItem, error) {
	query := `
		SELECT invoice_id, product_id, product_name, description, quantity, unit_price,
		       cuts_required, cutting_charge_per_cut, discount_percentage, discount_amount
		FROM invoice_items ` + where + ` ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InvoiceItem)
	for rows.Next() {
		var id string
		var it entity.InvoiceItem
		if err := rows.Scan(
			&id, &it.ProductID, &it.ProductName, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.CutsRequired, &it.CuttingChargePerCut, &it.DiscountPercentage, &it.DiscountAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[id] = append(out[id], it)
	}
	return out, rows.Err()
}

// ListNumbers devuelve los números de todas las facturas almacenadas.
func (r *InvoiceRepo) ListNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT invoice_number FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("list invoice numbers: %w", err)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan invoice numbers: %w", err)
	}
	return numbers, nil
}

// Update reemplaza cabecera e ítems conservando id y created_date.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			UPDATE invoices
			SET invoice_number = $2, client_id = $3, client_name = $4, issue_date = $5, due_date = $6,
			    status = $7, shipping_cost = $8, handling_cost = $9, other_charges = $10,
			    other_charges_description = $11, global_discount_percentage = $12,
			    global_discount_amount = $13, vat_rate = $14, vat_number = $15,
			    payment_terms = $16, notes = $17, last_modified = $18
			WHERE id = $1`
		tag, err := tx.Exec(ctx, query,
			inv.ID, inv.InvoiceNumber, inv.ClientID, inv.ClientName, nullDate(inv.IssueDate), nullDate(inv.DueDate),
			string(inv.Status), inv.ShippingCost, inv.HandlingCost, inv.OtherCharges,
			inv.OtherChargesDescription, inv.GlobalDiscountPercentage,
			inv.GlobalDiscountAmount, inv.VATRate, inv.VATNumber,
			inv.PaymentTerms, inv.Notes, inv.LastModified,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
			}
			return fmt.Errorf("update invoice: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return fmt.Errorf("replace invoice items: %w", err)
		}
		return insertItems(ctx, tx, inv.ID, inv.Items)
	})
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
