package quiz

// Option is one selectable choice of a rendered question.
type Option struct {
	Value string
	Label string
}

// View is the render model of a single question.
type View struct {
	ID            string
	No            int
	Text          string
	Kind          Kind
	InputType     string // "radio" or "checkbox"
	Options       []Option
	Answer        string
	AnswerVisible bool
	ToggleLabel   string
}

// Render builds the view of q. The answer is only included while visible.
func Render(q Question, visible bool) View {
	var v View
	switch q := q.(type) {
	case SingleChoice:
		v = choiceView(q.Common, KindSingleChoice, "radio", q.Options)
	case MultiChoice:
		v = choiceView(q.Common, KindMultiChoice, "checkbox", q.Options)
	default:
		panic("quiz: unknown question variant")
	}

	v.AnswerVisible = visible
	v.ToggleLabel = "Show answer"
	if visible {
		v.Answer = q.Record().Answer
		v.ToggleLabel = "Hide answer"
	}
	return v
}

// RenderAll renders the questions of a quiz in order.
func RenderAll(q *Quiz, reveal *Reveal) []View {
	if q == nil {
		return nil
	}
	views := make([]View, 0, len(q.Questions))
	for _, question := range q.Questions {
		views = append(views, Render(question, reveal.Visible(question.Record().ID)))
	}
	return views
}

func choiceView(c Common, kind Kind, input string, options []string) View {
	opts := make([]Option, len(options))
	for i, o := range options {
		opts[i] = Option{Value: o, Label: o}
	}
	return View{
		ID:        c.ID,
		No:        c.No,
		Text:      c.Text,
		Kind:      kind,
		InputType: input,
		Options:   opts,
	}
}
