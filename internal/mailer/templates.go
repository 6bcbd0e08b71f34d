package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/snackparty/catering-api/internal/domain"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

const (
	subjectQuotationCreatedFmt    = "Nueva cotización recibida - Snack Party #%d"
	subjectPersonalizationSaveFmt = "Personalización de snacks actualizada - Cotización #%d"
	subjectContact                = "Nuevo mensaje de contacto - Snack Party"
)

const notAvailable = "N/A"

type quotationEmailData struct {
	ID                 int64
	ClientName         string
	ClientEmail        string
	EventType          string
	EventDate          string
	GuestCount         int
	Address            string
	SpecialRequests    string
	ItemCount          int
	HasPersonalization bool
}

type personalizationEmailData struct {
	quotationEmailData
	Fruits   string
	Chips    string
	Toppings string
}

type contactEmailData struct {
	Name    string
	Email   string
	Message string
	Lines   []string
}

// ContactForm is a message left through the public contact form.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// QuotationCreatedEmail notifies the admin of a new quotation.
func QuotationCreatedEmail(q domain.Quotation, itemCount int, hasPersonalization bool) (Message, error) {
	data := newQuotationEmailData(q)
	data.ItemCount = itemCount
	data.HasPersonalization = hasPersonalization
	return render(fmt.Sprintf(subjectQuotationCreatedFmt, q.ID), "quotation_created", data)
}

// PersonalizationSavedEmail notifies the admin of changed snack selections.
func PersonalizationSavedEmail(q domain.Quotation, p domain.SnackPersonalization) (Message, error) {
	data := personalizationEmailData{
		quotationEmailData: newQuotationEmailData(q),
		Fruits:             orDefault(domain.JoinSelection(p.Fruits), "Ninguna"),
		Chips:              orDefault(domain.JoinSelection(p.Chips), "Ninguno"),
		Toppings:           orDefault(domain.JoinSelection(p.Toppings), "Ninguno"),
	}
	return render(fmt.Sprintf(subjectPersonalizationSaveFmt, q.ID), "personalization_saved", data)
}

// ContactEmail forwards a contact form message to the admin.
func ContactEmail(form ContactForm) (Message, error) {
	data := contactEmailData{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
		Lines:   strings.Split(form.Message, "\n"),
	}
	return render(subjectContact, "contact", data)
}

func newQuotationEmailData(q domain.Quotation) quotationEmailData {
	data := quotationEmailData{
		ID:          q.ID,
		ClientName:  notAvailable,
		ClientEmail: notAvailable,
		EventType:   q.EventType,
		EventDate:   q.EventDate.Format(time.DateOnly),
		GuestCount:  q.GuestCount,
		Address:     q.EventAddress,
	}
	if q.Owner != nil {
		data.ClientName = orDefault(q.Owner.FullName, notAvailable)
		data.ClientEmail = orDefault(q.Owner.Email, notAvailable)
	}
	if q.SpecialRequests != nil {
		data.SpecialRequests = strings.TrimSpace(*q.SpecialRequests)
	}
	return data
}

func render(subject, name string, data any) (Message, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return Message{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
