// Package report genera el PDF del prontuario de atendimento.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"vetly/internal/domain/records"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	margin     = 50.0
	lineHeight = 16.0
	footerText = "Vetly - Sistema de Gestão Veterinária"
)

type Options struct {
	// Compress desactivado deja el contenido legible (tests).
	Compress bool
	Now      func() time.Time
}

// Renderer implementa records.ReportRenderer sobre fpdf (A4, unidades en pt).
type Renderer struct {
	loc      *time.Location
	compress bool
	now      func() time.Time
	printer  *message.Printer
}

func New(loc *time.Location, opts Options) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		loc:      loc,
		compress: opts.Compress,
		now:      now,
		printer:  message.NewPrinter(language.BrazilianPortuguese),
	}
}

var _ records.ReportRenderer = (*Renderer)(nil)

func (r *Renderer) Render(w io.Writer, d records.Detail) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle("Prontuário de atendimento", true)
	pdf.SetCreator("vetly", false)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 10)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0x99, 0x99, 0x99)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - Página %d/{nb}", footerText, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// cabecera
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 22, tr("PRONTUÁRIO DE ATENDIMENTO"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	generated := r.now().In(r.loc)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 12, tr("Gerado em: "+generated.Format("02/01/2006")+" às "+generated.Format("15:04:05")), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	pdf.SetDrawColor(0x4A, 0x90, 0xE2)
	pdf.SetLineWidth(2)
	y := pdf.GetY()
	pdf.Line(margin, y, pageW-margin, y)
	pdf.Ln(16)

	pdf.SetTextColor(0x33, 0x33, 0x33)

	section(pdf, tr, "DADOS DO ANIMAL")
	field(pdf, tr, "Nome:", d.Animal.Name)
	field(pdf, tr, "Espécie:", d.Animal.Species)
	field(pdf, tr, "Raça:", orDefault(d.Animal.Breed, "Não informada"))
	birth := "Não informada"
	if d.Animal.BirthDate != nil {
		// fecha civil normalizada a medianoche UTC
		birth = d.Animal.BirthDate.UTC().Format("02/01/2006")
	}
	field(pdf, tr, "Data de Nascimento:", birth)
	pdf.Ln(lineHeight * 1.5)

	section(pdf, tr, "DADOS DO TUTOR")
	field(pdf, tr, "Nome:", d.Owner.Name)
	field(pdf, tr, "Telefone:", d.Owner.Phone)
	field(pdf, tr, "Email:", orDefault(d.Owner.Email, "Não informado"))
	pdf.Ln(lineHeight * 2)

	section(pdf, tr, "DADOS DO ATENDIMENTO")
	attended := d.AttendedAt.In(r.loc)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0x4A, 0x90, 0xE2)
	label := tr("Data do Atendimento: ")
	pdf.CellFormat(pdf.GetStringWidth(label), lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	pdf.CellFormat(0, lineHeight, attended.Format("02/01/2006, 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)

	field(pdf, tr, "Peso:", r.Weight(d.Weight))
	field(pdf, tr, "Medicamentos:", d.Medications)
	field(pdf, tr, "Dosagem:", d.Dosage)
	pdf.Ln(lineHeight)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, tr("Observações:"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentW, 14, tr(d.Notes), "", "J", false)

	pdf.Ln(lineHeight * 4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 12, strings.Repeat("_", 50), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 12, tr("Assinatura do Veterinário Responsável"), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: build: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: output: %w", err)
	}
	return nil
}

// Filename: prontuario-<animal>-<dd-mm-aaaa>.pdf, seguro para Content-Disposition.
func (r *Renderer) Filename(d records.Detail) string {
	return "prontuario-" + safeName(d.Animal.Name) + "-" + d.AttendedAt.In(r.loc).Format("02-01-2006") + ".pdf"
}

// Weight formatea el peso con coma decimal: 12.5 → "12,5 kg".
func (r *Renderer) Weight(w float64) string {
	return r.printer.Sprintf("%v kg", number.Decimal(w, number.MaxFractionDigits(3)))
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 18, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 12)
	l := tr(label)
	pdf.CellFormat(pdf.GetStringWidth(l), lineHeight, l, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, lineHeight, tr(" "+value), "", "L", false)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// safeName quita acentos y deja solo [A-Za-z0-9_-]; espacios → '-'.
func safeName(s string) string {
	// Chain guarda estado: uno nuevo por llamada
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, c := range folded {
		switch {
		case c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c)), c == '-', c == '_':
			b.WriteRune(c)
		case unicode.IsSpace(c):
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "animal"
	}
	return b.String()
}
