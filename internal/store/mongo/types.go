package mongo

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

const ColLeads = "leads"

type ContactDoc struct {
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	Email     string `bson:"email"`
	Phone     string `bson:"phone"`
	State     string `bson:"state,omitempty"`
	Consent   bool   `bson:"consent"`
}

type HealthDoc struct {
	HeightFeet       int  `bson:"height_feet"`
	HeightInches     int  `bson:"height_inches"`
	WeightLbs        int  `bson:"weight_lbs"`
	ChronicCondition bool `bson:"chronic_condition"`
	FamilyHistory    bool `bson:"family_history"`
	Medications      bool `bson:"medications"`
}

type InputsDoc struct {
	ProductType string     `bson:"product_type"`
	Style       string     `bson:"style,omitempty"`
	State       string     `bson:"state,omitempty"`
	Age         int        `bson:"age"`
	Gender      string     `bson:"gender"`
	Tobacco     bool       `bson:"tobacco"`
	Coverage    string     `bson:"coverage"`
	Health      *HealthDoc `bson:"health,omitempty"`
}

// Money is stored as decimal strings to keep it exact.
type ClaimedEstimateDoc struct {
	Low           string `bson:"low"`
	High          string `bson:"high"`
	RequiresAgent bool   `bson:"requires_agent,omitempty"`
}

type EstimateDoc struct {
	Outcome      string `bson:"outcome"`
	Coverage     int64  `bson:"coverage"`
	MaxCoverage  int64  `bson:"max_coverage"`
	Low          string `bson:"low"`
	High         string `bson:"high"`
	HealthClass  string `bson:"health_class,omitempty"`
	RatesVersion string `bson:"rates_version"`
}

type NotificationDoc struct {
	Status      string     `bson:"status"`
	AttemptedAt *time.Time `bson:"attempted_at,omitempty"`
	Error       string     `bson:"error,omitempty"`
}

type CRMDoc struct {
	Status    string `bson:"status"` // indexed with created_at
	ContactID string `bson:"contact_id,omitempty"`
	Attempts  int    `bson:"attempts"`
	LastError string `bson:"last_error,omitempty"`
}

type LeadDoc struct {
	ID              string              `bson:"_id"`
	Kind            string              `bson:"kind"`
	Contact         ContactDoc          `bson:"contact"`
	Message         string              `bson:"message,omitempty"`
	ProductType     string              `bson:"product_type,omitempty"`
	Inputs          *InputsDoc          `bson:"inputs,omitempty"`
	ClaimedEstimate *ClaimedEstimateDoc `bson:"claimed_estimate,omitempty"`
	Estimate        *EstimateDoc        `bson:"estimate,omitempty"`
	Source          string              `bson:"source,omitempty"`
	ClientCreatedAt *time.Time          `bson:"client_created_at,omitempty"`
	Notification    NotificationDoc     `bson:"notification"`
	CRM             CRMDoc              `bson:"crm"`
	CreatedAt       time.Time           `bson:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at"`
}

func toLeadDoc(l core.Lead) LeadDoc {
	d := LeadDoc{
		ID:   l.ID,
		Kind: string(l.Kind),
		Contact: ContactDoc{
			FirstName: l.Contact.FirstName,
			LastName:  l.Contact.LastName,
			Email:     l.Contact.Email,
			Phone:     l.Contact.Phone,
			State:     l.Contact.State,
			Consent:   l.Contact.Consent,
		},
		Message:         l.Message,
		ProductType:     string(l.Product),
		Source:          l.Source,
		ClientCreatedAt: l.ClientCreatedAt,
		Notification:    toNotificationDoc(l.Notification),
		CRM:             toCRMDoc(l.CRM),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if in := l.Inputs; in != nil {
		d.Inputs = &InputsDoc{
			ProductType: string(in.Product),
			Style:       string(in.Style),
			State:       in.State,
			Age:         in.Age,
			Gender:      string(in.Gender),
			Tobacco:     in.Tobacco,
			Coverage:    in.Coverage,
		}
		if h := in.Health; h != nil {
			d.Inputs.Health = &HealthDoc{
				HeightFeet:       h.HeightFeet,
				HeightInches:     h.HeightInches,
				WeightLbs:        h.WeightLbs,
				ChronicCondition: h.ChronicCondition,
				FamilyHistory:    h.FamilyHistory,
				Medications:      h.Medications,
			}
		}
	}
	if c := l.ClaimedEstimate; c != nil {
		d.ClaimedEstimate = &ClaimedEstimateDoc{Low: c.Low.String(), High: c.High.String(), RequiresAgent: c.RequiresAgent}
	}
	if e := l.Estimate; e != nil {
		d.Estimate = &EstimateDoc{
			Outcome:      string(e.Outcome),
			Coverage:     e.Coverage,
			MaxCoverage:  e.MaxCoverage,
			Low:          e.Low.String(),
			High:         e.High.String(),
			HealthClass:  string(e.HealthClass),
			RatesVersion: e.RatesVersion,
		}
	}
	return d
}

func fromLeadDoc(d LeadDoc) core.Lead {
	l := core.Lead{
		ID:   d.ID,
		Kind: core.LeadKind(d.Kind),
		Contact: core.ContactInfo{
			FirstName: d.Contact.FirstName,
			LastName:  d.Contact.LastName,
			Email:     d.Contact.Email,
			Phone:     d.Contact.Phone,
			State:     d.Contact.State,
			Consent:   d.Contact.Consent,
		},
		Message:         d.Message,
		Product:         rates.Product(d.ProductType),
		Source:          d.Source,
		ClientCreatedAt: d.ClientCreatedAt,
		Notification: core.Notification{
			Status:      core.NotificationStatus(d.Notification.Status),
			AttemptedAt: d.Notification.AttemptedAt,
			Error:       d.Notification.Error,
		},
		CRM: core.CRMState{
			Status:    core.CRMStatus(d.CRM.Status),
			ContactID: d.CRM.ContactID,
			Attempts:  d.CRM.Attempts,
			LastError: d.CRM.LastError,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if in := d.Inputs; in != nil {
		l.Inputs = &core.EstimateInput{
			Product:  rates.Product(in.ProductType),
			Style:    rates.PolicyStyle(in.Style),
			State:    in.State,
			Age:      in.Age,
			Gender:   rates.Gender(in.Gender),
			Tobacco:  in.Tobacco,
			Coverage: in.Coverage,
		}
		if h := in.Health; h != nil {
			l.Inputs.Health = &core.HealthDetails{
				HeightFeet:       h.HeightFeet,
				HeightInches:     h.HeightInches,
				WeightLbs:        h.WeightLbs,
				ChronicCondition: h.ChronicCondition,
				FamilyHistory:    h.FamilyHistory,
				Medications:      h.Medications,
			}
		}
	}
	if c := d.ClaimedEstimate; c != nil {
		l.ClaimedEstimate = &core.ClaimedEstimate{Low: parseDecimal(c.Low), High: parseDecimal(c.High), RequiresAgent: c.RequiresAgent}
	}
	if e := d.Estimate; e != nil {
		l.Estimate = &core.LeadEstimate{
			Outcome:      core.Outcome(e.Outcome),
			Coverage:     e.Coverage,
			MaxCoverage:  e.MaxCoverage,
			Low:          parseDecimal(e.Low),
			High:         parseDecimal(e.High),
			HealthClass:  underwriting.HealthClass(e.HealthClass),
			RatesVersion: e.RatesVersion,
		}
	}
	return l
}

func toNotificationDoc(n core.Notification) NotificationDoc {
	return NotificationDoc{Status: string(n.Status), AttemptedAt: n.AttemptedAt, Error: n.Error}
}

func toCRMDoc(s core.CRMState) CRMDoc {
	return CRMDoc{Status: string(s.Status), ContactID: s.ContactID, Attempts: s.Attempts, LastError: s.LastError}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
