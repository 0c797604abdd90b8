// ABOUTME: Issue report wizard with location search, details form, and submit
// ABOUTME: Runs the submission state machine; validation failures never hit the network

package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/locsearch"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
)

// MaxImageSize is the largest photo the backend accepts
const MaxImageSize = 5 * 1024 * 1024

// phase is the submission state machine position
type phase int

const (
	phaseLocation phase = iota
	phaseDetails
	phaseSubmitting
	phaseSuccess
	phaseFailed
)

// SubmittedMsg is sent after a successful report, carrying the new issue
type SubmittedMsg struct {
	Issue *client.Issue
}

// CancelledMsg is sent when the user abandons the report
type CancelledMsg struct{}

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// submitResultMsg carries the submission outcome
type submitResultMsg struct {
	issue *client.Issue
	err   error
}

// typesLoadedMsg carries the issue type vocabulary
type typesLoadedMsg struct {
	types []string
	err   error
}

var defaultIssueTypes = []string{
	"pothole", "street_light", "garbage", "water_supply",
	"sewage", "road_damage", "traffic_signal", "other",
}

var stepNames = []string{"Location", "Details"}

// Report is the issue submission screen
type Report struct {
	api    *client.Client
	search locsearch.Model
	form   *huh.Form
	phase  phase
	width  int

	issueTypes []string
	input      client.ReportInput
	hasCoords  bool
	created    *client.Issue
	err        string
	fieldErr   string

	// huh form values
	title       string
	description string
	issueType   string
	priority    string
	imagePath   string
}

// New creates the report screen
func New(api *client.Client, width int) *Report {
	r := &Report{
		api:        api,
		search:     locsearch.New(api),
		phase:      phaseLocation,
		width:      width,
		issueTypes: defaultIssueTypes,
		priority:   client.PriorityMedium,
	}
	return r
}

// Init focuses the location search and loads the type vocabulary
func (r *Report) Init() tea.Cmd {
	api := r.api
	loadTypes := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		types, err := api.IssueTypes(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
	return tea.Batch(r.search.Focus(), loadTypes)
}

// SetWidth adjusts the layout width
func (r *Report) SetWidth(width int) {
	r.width = width
}

func (r *Report) buildDetailsForm() *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(r.issueTypes))
	for _, t := range r.issueTypes {
		typeOptions = append(typeOptions, huh.NewOption(displayEnum(t), t))
	}

	priorityOptions := []huh.Option[string]{
		huh.NewOption("Low", client.PriorityLow),
		huh.NewOption("Medium", client.PriorityMedium),
		huh.NewOption("High", client.PriorityHigh),
		huh.NewOption("Urgent", client.PriorityUrgent),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Short summary of the problem").
				CharLimit(120).
				Value(&r.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("What is wrong, and since when?").
				CharLimit(2000).
				Value(&r.description).
				Validate(validateDescription),
			huh.NewSelect[string]().
				Title("Issue type").
				Options(typeOptions...).
				Value(&r.issueType),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&r.priority),
			huh.NewInput().
				Title("Photo path").
				Placeholder("/path/to/photo.jpg").
				Value(&r.imagePath).
				Validate(validateImage),
		).Title("Step 2: Details").
			Description("Describe the issue and attach a photo"),
	).WithTheme(styles.FormTheme())
}

// Update handles messages for the report screen
func (r *Report) Update(msg tea.Msg) (*Report, tea.Cmd) {
	switch msg := msg.(type) {
	case typesLoadedMsg:
		if msg.err == nil && len(msg.types) > 0 {
			r.issueTypes = msg.types
		}
		return r, nil

	case locsearch.LocationSelectedMsg:
		r.input.Address = msg.Result.DisplayName
		r.input.Latitude = msg.Lat
		r.input.Longitude = msg.Lon
		r.hasCoords = true
		r.search.Blur()
		r.phase = phaseDetails
		r.form = r.buildDetailsForm()
		return r, r.form.Init()

	case submitResultMsg:
		return r.handleSubmitResult(msg)

	case tea.KeyMsg:
		return r.updateKey(msg)
	}

	return r.forward(msg)
}

func (r *Report) updateKey(msg tea.KeyMsg) (*Report, tea.Cmd) {
	switch r.phase {
	case phaseLocation:
		if msg.String() == "esc" && r.search.Value() == "" {
			return r, func() tea.Msg { return CancelledMsg{} }
		}
		var cmd tea.Cmd
		r.search, cmd = r.search.Update(msg)
		return r, cmd

	case phaseDetails:
		if msg.String() == "esc" {
			// Back to the location step with the chosen address kept
			r.phase = phaseLocation
			return r, r.search.Focus()
		}
		return r.updateForm(msg)

	case phaseSubmitting:
		return r, nil

	case phaseSuccess:
		switch msg.String() {
		case "enter", "esc", "q":
			issue := r.created
			return r, func() tea.Msg { return SubmittedMsg{Issue: issue} }
		}
		return r, nil

	case phaseFailed:
		switch msg.String() {
		case "r":
			return r.submit()
		case "e":
			r.phase = phaseDetails
			r.form = r.buildDetailsForm()
			return r, r.form.Init()
		case "esc":
			return r, func() tea.Msg { return CancelledMsg{} }
		}
		return r, nil
	}

	return r, nil
}

func (r *Report) updateForm(msg tea.Msg) (*Report, tea.Cmd) {
	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		return r.submit()
	}

	return r, cmd
}

// forward routes non-key messages to whichever child is active
func (r *Report) forward(msg tea.Msg) (*Report, tea.Cmd) {
	switch r.phase {
	case phaseLocation:
		var cmd tea.Cmd
		r.search, cmd = r.search.Update(msg)
		return r, cmd
	case phaseDetails:
		if r.form != nil {
			return r.updateForm(msg)
		}
	}
	return r, nil
}

// submit runs the final client-side validation and, only if everything
// holds, issues the single multipart POST
func (r *Report) submit() (*Report, tea.Cmd) {
	r.input.Title = strings.TrimSpace(r.title)
	r.input.Description = strings.TrimSpace(r.description)
	r.input.IssueType = r.issueType
	r.input.Priority = r.priority
	r.input.ImagePath = strings.TrimSpace(r.imagePath)

	if err := r.validate(); err != nil {
		r.fieldErr = err.Error()
		r.phase = phaseDetails
		r.form = r.buildDetailsForm()
		return r, r.form.Init()
	}

	r.fieldErr = ""
	r.phase = phaseSubmitting
	api, input := r.api, r.input
	return r, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		issue, err := api.CreateIssue(ctx, input)
		return submitResultMsg{issue: issue, err: err}
	}
}

func (r *Report) validate() error {
	if r.input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.input.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.input.IssueType == "" {
		return fmt.Errorf("issue type is required")
	}
	if !r.hasCoords {
		return fmt.Errorf("pick a location first")
	}
	return validateImage(r.input.ImagePath)
}

func (r *Report) handleSubmitResult(msg submitResultMsg) (*Report, tea.Cmd) {
	if msg.err == nil {
		r.created = msg.issue
		r.phase = phaseSuccess
		return r, nil
	}

	if client.IsSessionExpired(msg.err) {
		return r, func() tea.Msg { return SessionExpiredMsg{} }
	}

	if apiErr, ok := client.AsAPIError(msg.err); ok && apiErr.IsValidation() {
		// Backend field validation: show the message verbatim and reopen
		// the form with everything the user typed preserved
		r.fieldErr = apiErr.Message
		r.phase = phaseDetails
		r.form = r.buildDetailsForm()
		return r, r.form.Init()
	}

	r.err = msg.err.Error()
	r.phase = phaseFailed
	return r, nil
}

// View renders the report screen
func (r *Report) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Report.String() + " Report an Issue"))
	b.WriteString("\n")
	b.WriteString(r.renderProgress())
	b.WriteString("\n\n")

	switch r.phase {
	case phaseLocation:
		b.WriteString(styles.Subtitle.Render("Where is the problem?"))
		b.WriteString("\n")
		b.WriteString(r.search.View())
		if r.hasCoords {
			b.WriteString("\n\n")
			b.WriteString(styles.Help.Render(fmt.Sprintf("%s %s (%.4f, %.4f)",
				icons.MapPin.String(), r.input.Address, r.input.Latitude, r.input.Longitude)))
			b.WriteString("\n")
			b.WriteString(r.renderPreview())
		}

	case phaseDetails:
		b.WriteString(styles.Help.Render(icons.MapPin.String() + " " + r.input.Address))
		b.WriteString("\n\n")
		b.WriteString(r.form.View())
		if r.fieldErr != "" {
			b.WriteString("\n")
			b.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + r.fieldErr))
		}

	case phaseSubmitting:
		b.WriteString(styles.Subtitle.Render("Submitting your report..."))

	case phaseSuccess:
		b.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " Report submitted"))
		b.WriteString("\n\n")
		if r.created != nil {
			b.WriteString(fmt.Sprintf("Issue #%d: %s\n", r.created.ID, r.created.Title))
			b.WriteString(styles.Help.Render("Status: " + r.created.Status))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.Help.Render("Enter to continue"))

	case phaseFailed:
		b.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " Submission failed"))
		b.WriteString("\n\n")
		b.WriteString(styles.FieldError.Render(r.err))
		b.WriteString("\n\n")
		b.WriteString(styles.Help.Render("r retry  e edit  esc cancel"))
	}

	return b.String()
}

// renderPreview draws a small grid centered on the chosen location
func (r *Report) renderPreview() string {
	config := widgets.DefaultMapGridConfig(40, 8)
	config.CenterLat = r.input.Latitude
	config.CenterLon = r.input.Longitude
	config.SpanLat, config.SpanLon = 0.1, 0.2

	marker := widgets.MapMarker{Lat: r.input.Latitude, Lon: r.input.Longitude, Highlight: true}
	return widgets.MapGrid([]widgets.MapMarker{marker}, config)
}

// renderProgress shows which step of the report flow is active
func (r *Report) renderProgress() string {
	step := 1
	if r.phase != phaseLocation {
		step = 2
	}

	var steps []string
	for i, name := range stepNames {
		num := i + 1
		var indicator string
		var nameStyle lipgloss.Style
		if num < step {
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		} else if num == step {
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		} else {
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	return strings.Join(steps, "    ")
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}

// validateImage checks the photo exists and fits the upload limit without
// reading it
func validateImage(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("photo path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("photo not found: %s", path)
		}
		return fmt.Errorf("cannot read photo: %v", err)
	}
	if info.IsDir() {
		return fmt.Errorf("photo path is a directory")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return fmt.Errorf("photo must be a jpg, png, gif, or webp file")
	}
	if info.Size() > MaxImageSize {
		return fmt.Errorf("photo is %.1f MB, the limit is 5 MB", float64(info.Size())/(1024*1024))
	}
	return nil
}

func displayEnum(value string) string {
	parts := strings.Split(value, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
