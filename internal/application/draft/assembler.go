// Package draft assembles the application and first-appeal documents. The
// clause order is fixed; a generated document that is missing any mandatory
// clause is rejected rather than filed incomplete.
package draft

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// pendingRoutingAddressee replaces the addressee block when routing ended on
// the unresolved sentinel. The document is still drafted; only filing waits
// for manual resolution.
const pendingRoutingAddressee = "To,\nThe Public Information Officer\n[DESTINATION PENDING MANUAL ROUTING]"

// Assembler builds documents from a routed, classified request.
type Assembler struct {
	generator QuestionGenerator
	fallback  *TemplateGenerator
	log       logging.Logger
}

// NewAssembler builds an assembler. generator may be nil, in which case
// only the template fallback is used.
func NewAssembler(generator QuestionGenerator, log logging.Logger) *Assembler {
	return &Assembler{generator: generator, fallback: NewTemplateGenerator(), log: log}
}

// Draft holds the assembled document and the questions it embeds.
type Draft struct {
	Subject   string
	Questions []string
	Document  string
}

// Assemble produces the application document. The remote generator is
// preferred; an error or an empty question list from it falls back to the
// category question bank so drafting never depends on collaborator health.
func (a *Assembler) Assemble(ctx context.Context, req *request.Request, category *taxonomy.Category, office *taxonomy.Office) (*Draft, error) {
	questions := a.questions(ctx, req, category)
	if len(questions) == 0 {
		return nil, errors.New(errors.ErrCodeGenerationFailed,
			"no questions available for category "+category.ID)
	}

	subject := fmt.Sprintf("Request for information regarding %s under the Right to Information Act, 2005", strings.ToLower(category.Name))
	doc := a.render(req, category, office, subject, questions)
	if err := validateDocument(doc, req, questions); err != nil {
		return nil, err
	}
	return &Draft{Subject: subject, Questions: questions, Document: doc}, nil
}

func (a *Assembler) questions(ctx context.Context, req *request.Request, category *taxonomy.Category) []string {
	if a.generator != nil {
		questions, err := a.generator.GenerateQuestions(ctx, req.QueryText, category, req.Classification.Slots)
		if err != nil {
			a.log.Warn("question generator unavailable, using template bank",
				logging.String("ref", req.RefNumber), logging.Err(err))
		} else if len(questions) > 0 {
			return questions
		}
	}
	questions, _ := a.fallback.GenerateQuestions(ctx, req.QueryText, category, req.Classification.Slots)
	return questions
}

// render writes the clauses in their fixed order: addressee, subject,
// applicant, questions, fee, deadline, transfer, declaration, signature.
func (a *Assembler) render(req *request.Request, category *taxonomy.Category, office *taxonomy.Office, subject string, questions []string) string {
	var b strings.Builder

	if office == nil || office.Unresolved() {
		b.WriteString(pendingRoutingAddressee)
		b.WriteString("\n\n")
	} else {
		fmt.Fprintf(&b, "To,\n%s\n%s\n%s\n\n", office.OfficerName, office.Department, office.Address)
	}

	fmt.Fprintf(&b, "Subject: %s\n\n", subject)

	fmt.Fprintf(&b, "Respected Sir/Madam,\n\nI, %s, resident of %s, wish to seek information under Section 6(1) of the Right to Information Act, 2005, regarding the following matter:\n\n%s\n\n",
		req.Applicant.Name, req.Applicant.Address, req.QueryText)

	b.WriteString("I request the following information:\n\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\n")

	if req.Fee == 0 && req.Applicant.FeeExempt() {
		fmt.Fprintf(&b, "I belong to the Below Poverty Line category (card no. %s) and am exempt from payment of the application fee under Section 7(5) of the RTI Act, 2005. A copy of the BPL card is enclosed.\n\n", req.Applicant.BPLCardNumber)
	} else {
		fmt.Fprintf(&b, "The application fee of Rs. %d is enclosed as required under the Right to Information (Regulation of Fee and Cost) Rules, 2005.\n\n", req.Fee)
	}

	b.WriteString("Kindly provide the information within thirty days as mandated under Section 7(1) of the RTI Act, 2005.\n\n")

	b.WriteString("If this application pertains to another public authority, kindly transfer it under Section 6(3) of the RTI Act, 2005, and inform me of the transfer.\n\n")

	b.WriteString("I declare that I am a citizen of India.\n\n")

	fmt.Fprintf(&b, "Yours faithfully,\n%s\n%s", req.Applicant.Name, req.Applicant.Address)
	if req.Applicant.Email != "" {
		fmt.Fprintf(&b, "\nEmail: %s", req.Applicant.Email)
	}
	if req.Applicant.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", req.Applicant.Phone)
	}
	b.WriteString("\n")

	return b.String()
}

// validateDocument fails closed when a mandatory clause is missing. An
// incomplete document must never reach filing.
func validateDocument(doc string, req *request.Request, questions []string) error {
	checks := []struct {
		fragment string
		clause   string
	}{
		{"To,", "addressee"},
		{"Subject:", "subject"},
		{req.Applicant.Name, "applicant name"},
		{"Section 6(1)", "statutory citation"},
		{"Section 7(1)", "deadline clause"},
		{"Section 6(3)", "transfer clause"},
		{"citizen of India", "declaration"},
		{"Yours faithfully,", "signature"},
	}
	for _, c := range checks {
		if c.fragment == "" || !strings.Contains(doc, c.fragment) {
			return errors.Newf(errors.ErrCodeStructuralValidation,
				"assembled document is missing the %s clause", c.clause)
		}
	}
	for i := range questions {
		if !strings.Contains(doc, fmt.Sprintf("%d. ", i+1)) {
			return errors.Newf(errors.ErrCodeStructuralValidation,
				"assembled document is missing question %d", i+1)
		}
	}
	if !strings.Contains(doc, "Section 7(5)") && !strings.Contains(doc, "fee of Rs.") {
		return errors.New(errors.ErrCodeStructuralValidation,
			"assembled document is missing the fee clause")
	}
	return nil
}

// AssembleAppeal builds the Section 19(1) first-appeal document for a
// request whose deadline elapsed with no response.
func AssembleAppeal(req *request.Request, office *taxonomy.Office, ground request.AppealGround, now time.Time) string {
	var b strings.Builder

	b.WriteString("To,\nThe First Appellate Authority\n")
	if office != nil && !office.Unresolved() {
		fmt.Fprintf(&b, "%s\n%s\n", office.Department, office.Address)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Subject: First appeal under Section 19(1) of the RTI Act, 2005 against application %s\n\n", req.RefNumber)

	fmt.Fprintf(&b, "Respected Sir/Madam,\n\nI, %s, filed an application under the Right to Information Act, 2005 (reference %s)", req.Applicant.Name, req.RefNumber)
	if req.FiledAt != nil {
		fmt.Fprintf(&b, " on %s", req.FiledAt.Format("02 January 2006"))
	}
	b.WriteString(".\n\n")

	switch ground {
	case request.GroundDeemedRefusal:
		b.WriteString("The thirty-day period prescribed under Section 7(1) has expired without any response from the Public Information Officer. Under Section 7(2) this constitutes a deemed refusal.\n\n")
	default:
		b.WriteString("The response received from the Public Information Officer is incomplete and does not address the information sought.\n\n")
	}

	b.WriteString("I therefore request you to direct the Public Information Officer to provide the information sought, free of charge as provided under Section 7(6) of the RTI Act, 2005.\n\n")

	fmt.Fprintf(&b, "Date: %s\n\nYours faithfully,\n%s\n%s\n", now.Format("02 January 2006"), req.Applicant.Name, req.Applicant.Address)

	return b.String()
}
