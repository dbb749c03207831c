package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/domain/repositories"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	apperrors "github.com/codexmed/t2a-assistant/pkg/errors"
)

// insertChunkSize bounds the number of rows per bulk insert statement.
const insertChunkSize = 500

// CatalogAdapter implements the catalog read contract and the batch write
// contract over PostgreSQL.
type CatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client *postgres.Client) *CatalogAdapter {
	return &CatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var (
	_ repositories.CatalogRepository          = (*CatalogAdapter)(nil)
	_ repositories.AssociationWriteRepository = (*CatalogAdapter)(nil)
)

// ListCodes returns every catalog entry in catalog order.
func (a *CatalogAdapter) ListCodes(ctx context.Context) ([]*entities.ProcedureCode, error) {
	query, args, err := a.db.Select(
		"code", "label", "coding_instruction", "activity", "phase", "classant",
		"icr_public", "icr_private", "tarif_base", "modifiers",
		"chapter_num", "chapter_title", "subchapter_num", "subchapter_title",
		"paragraph_num", "paragraph_title", "subparagraph_num", "subparagraph_title",
		"date_start", "date_end",
		"gestures_text", "gestures_act123", "gestures_act4", "gestures_act5", "anesthesia",
	).From("ccam_codes").
		Order(goqu.I("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build codes query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list catalog codes", err)
	}
	defer rows.Close()

	var codes []*entities.ProcedureCode
	for rows.Next() {
		p := &entities.ProcedureCode{}
		var (
			codingInstruction, activity, phase, classant, modifiers        sql.NullString
			chapterNum, chapterTitle, subchapterNum, subchapterTitle       sql.NullString
			paragraphNum, paragraphTitle, subparagraphNum, subparaTitle    sql.NullString
			gesturesText, gesturesAct123, gesturesAct4, gesturesAct5, anes sql.NullString
			icrPublic, icrPrivate, tarifBase                               sql.NullFloat64
			dateStart, dateEnd                                             sql.NullTime
		)

		err := rows.Scan(
			&p.Code, &p.Label, &codingInstruction, &activity, &phase, &classant,
			&icrPublic, &icrPrivate, &tarifBase, &modifiers,
			&chapterNum, &chapterTitle, &subchapterNum, &subchapterTitle,
			&paragraphNum, &paragraphTitle, &subparagraphNum, &subparaTitle,
			&dateStart, &dateEnd,
			&gesturesText, &gesturesAct123, &gesturesAct4, &gesturesAct5, &anes,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan catalog code", err)
		}

		p.CodingInstruction = codingInstruction.String
		p.Activity = activity.String
		p.Phase = phase.String
		p.Classant = classant.String
		p.Modifiers = modifiers.String
		p.ChapterNum = chapterNum.String
		p.ChapterTitle = chapterTitle.String
		p.SubchapterNum = subchapterNum.String
		p.SubchapterTitle = subchapterTitle.String
		p.ParagraphNum = paragraphNum.String
		p.ParagraphTitle = paragraphTitle.String
		p.SubparagraphNum = subparagraphNum.String
		p.SubparagraphTitle = subparaTitle.String
		p.GesturesText = gesturesText.String
		p.GesturesAct123 = gesturesAct123.String
		p.GesturesAct4 = gesturesAct4.String
		p.GesturesAct5 = gesturesAct5.String
		p.AnesthesiaText = anes.String

		if icrPublic.Valid {
			v := icrPublic.Float64
			p.ICRPublic = &v
		}
		if icrPrivate.Valid {
			v := icrPrivate.Float64
			p.ICRPrivate = &v
		}
		if tarifBase.Valid {
			v := tarifBase.Float64
			p.TarifBase = &v
		}
		if dateStart.Valid {
			t := dateStart.Time
			p.DateStart = &t
		}
		if dateEnd.Valid {
			t := dateEnd.Time
			p.DateEnd = &t
		}

		codes = append(codes, p)
	}

	return codes, rows.Err()
}

// ListChapters returns the full subdivision hierarchy.
func (a *CatalogAdapter) ListChapters(ctx context.Context) ([]*entities.Chapter, error) {
	query, args, err := a.db.Select("num", "title", "level", "parent_num").
		From("chapters").
		Order(goqu.I("level").Asc(), goqu.I("num").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build chapters query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list chapters", err)
	}
	defer rows.Close()

	var chapters []*entities.Chapter
	for rows.Next() {
		c := &entities.Chapter{}
		var parentNum sql.NullString
		if err := rows.Scan(&c.Num, &c.Title, &c.Level, &parentNum); err != nil {
			return nil, apperrors.NewInternalError("failed to scan chapter", err)
		}
		if parentNum.Valid {
			v := parentNum.String
			c.ParentNum = &v
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}

// ListEdges returns every authoritative association edge.
func (a *CatalogAdapter) ListEdges(ctx context.Context) ([]entities.AssociationEdge, error) {
	query, args, err := a.db.Select("code", "associated_code", "association_type", "activity").
		From("associations").
		Order(goqu.I("code").Asc(), goqu.I("associated_code").Asc(), goqu.I("activity").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build edges query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list association edges", err)
	}
	defer rows.Close()

	var edges []entities.AssociationEdge
	for rows.Next() {
		var e entities.AssociationEdge
		if err := rows.Scan(&e.Code, &e.AssociatedCode, &e.AssociationType, &e.Activity); err != nil {
			return nil, apperrors.NewInternalError("failed to scan association edge", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// ListObserved returns every classified observed association, rank order
// preserved within each source code.
func (a *CatalogAdapter) ListObserved(ctx context.Context) ([]entities.ObservedAssociation, error) {
	query, args, err := a.db.Select("code", "associated_code", "label", "icr_public", "confidence", "rank").
		From("frequent_associations").
		Order(goqu.I("code").Asc(), goqu.I("rank").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build observed query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list observed associations", err)
	}
	defer rows.Close()

	var observed []entities.ObservedAssociation
	for rows.Next() {
		var o entities.ObservedAssociation
		var label sql.NullString
		var icrPublic sql.NullFloat64
		if err := rows.Scan(&o.Code, &o.AssociatedCode, &label, &icrPublic, &o.Confidence, &o.Rank); err != nil {
			return nil, apperrors.NewInternalError("failed to scan observed association", err)
		}
		o.Label = label.String
		if icrPublic.Valid {
			v := icrPublic.Float64
			o.ICRPublic = &v
		}
		observed = append(observed, o)
	}

	return observed, rows.Err()
}

// ReplaceEdges replaces the authoritative edge table in one transaction.
func (a *CatalogAdapter) ReplaceEdges(ctx context.Context, edges []entities.AssociationEdge) error {
	records := make([]goqu.Record, 0, len(edges))
	for _, e := range edges {
		records = append(records, goqu.Record{
			"code":             e.Code,
			"associated_code":  e.AssociatedCode,
			"association_type": string(e.AssociationType),
			"activity":         e.Activity,
		})
	}
	return a.replaceTable(ctx, "associations", records)
}

// ReplaceObserved replaces the observed association table in one transaction.
func (a *CatalogAdapter) ReplaceObserved(ctx context.Context, observed []entities.ObservedAssociation) error {
	records := make([]goqu.Record, 0, len(observed))
	for _, o := range observed {
		records = append(records, goqu.Record{
			"code":            o.Code,
			"associated_code": o.AssociatedCode,
			"label":           sql.NullString{String: o.Label, Valid: o.Label != ""},
			"icr_public":      nullFloat(o.ICRPublic),
			"confidence":      string(o.Confidence),
			"rank":            o.Rank,
		})
	}
	return a.replaceTable(ctx, "frequent_associations", records)
}

// replaceTable deletes and re-inserts a whole table atomically. The edge set
// is published wholesale; readers load from it only after commit.
func (a *CatalogAdapter) replaceTable(ctx context.Context, table string, records []goqu.Record) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	deleteSQL, deleteArgs, err := a.db.Delete(table).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return apperrors.NewInternalError("failed to clear "+table, err)
	}

	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}
		insertSQL, insertArgs, err := a.db.Insert(table).Rows(chunkRows(records[start:end])...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return apperrors.NewInternalError("failed to insert into "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit "+table+" replacement", err)
	}
	return nil
}

func chunkRows(records []goqu.Record) []interface{} {
	rows := make([]interface{}, len(records))
	for i, r := range records {
		rows[i] = r
	}
	return rows
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
