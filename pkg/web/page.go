package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/catalog"
	"sales-forecast-web/pkg/models"
	"sales-forecast-web/pkg/services"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageTemplate is the name of the landing page template.
const PageTemplate = "page.tmpl"

// SearchField is one searchable selector as rendered in the form.
type SearchField struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
	Search      string
	Options     []string
}

// FormView 入力フォームの表示内容
type FormView struct {
	Title      string
	Action     string
	Input      models.FormInput
	Searchable []SearchField
	StoreTypes []catalog.Option
	DayTypes   []string
	Busy       bool
}

// PageView はランディングページ全体のテンプレートデータです。
type PageView struct {
	Content      *config.PageContent
	Navbar       Navbar
	Footer       Footer
	Home         Section
	Predict      Section
	About        Section
	Guide        Section
	Benefits     Section
	CTA          Section
	Steps        []StepCard
	BenefitCards []StepCard
	Form         FormView
	Error        string
	Presentation models.Presentation
	Notification *models.Notification
}

// BuildPage assembles the page from content and the state of a form controller.
func BuildPage(content *config.PageContent, fc *services.FormController, menuOpen bool) PageView {
	return PageView{
		Content:      content,
		Navbar:       NewNavbar(content.Navbar.Links, menuOpen),
		Footer:       NewFooter(content),
		Home:         Section{ID: "home", Class: "hero"},
		Predict:      Section{ID: "predict", Class: "demo"},
		About:        Section{ID: "about", Class: "story"},
		Guide:        Section{ID: "guide", Class: "guide"},
		Benefits:     Section{ID: "benefits", Class: "benefits"},
		CTA:          Section{ID: "cta", Class: "cta"},
		Steps:        NewStepCards(content.Guide.Steps),
		BenefitCards: NewStepCards(content.Benefits.Items),
		Form:         buildForm(content, fc),
		Error:        fc.Error(),
		Presentation: services.Present(fc.Result()),
		Notification: fc.Notification(),
	}
}

func buildForm(content *config.PageContent, fc *services.FormController) FormView {
	searchable := []struct {
		selector    catalog.Selector
		label       string
		placeholder string
	}{
		{catalog.SelectorState, "State*", "Search state..."},
		{catalog.SelectorCity, "City*", "Search city..."},
		{catalog.SelectorFamily, "Product Family*", "Search product family..."},
	}

	fields := make([]SearchField, 0, len(searchable))
	for _, s := range searchable {
		options, _ := fc.Options(s.selector)
		fields = append(fields, SearchField{
			Name:        string(s.selector),
			Label:       s.label,
			Placeholder: s.placeholder,
			Value:       fc.DisplayValue(s.selector),
			Search:      fc.SearchText(s.selector),
			Options:     options,
		})
	}

	return FormView{
		Title:      content.Demo.FormTitle,
		Action:     "/predict-form#predict",
		Input:      fc.Form(),
		Searchable: fields,
		StoreTypes: catalog.StoreTypes,
		DayTypes:   catalog.DayTypes,
		Busy:       fc.Busy(),
	}
}

// Templates parses the embedded html templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"icon": IconGlyph,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// RenderPage executes the page template into memory so that a failing
// template never reaches the client as a partial document.
func RenderPage(tmpl *template.Template, view PageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, PageTemplate, view); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Static returns the embedded css and js assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
