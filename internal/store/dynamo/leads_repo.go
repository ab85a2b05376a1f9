package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

type ContactItem struct {
	FirstName string `dynamodbav:"first_name"`
	LastName  string `dynamodbav:"last_name"`
	Email     string `dynamodbav:"email"`
	Phone     string `dynamodbav:"phone"`
	State     string `dynamodbav:"state,omitempty"`
	Consent   bool   `dynamodbav:"consent"`
}

type HealthItem struct {
	HeightFeet       int  `dynamodbav:"height_feet"`
	HeightInches     int  `dynamodbav:"height_inches"`
	WeightLbs        int  `dynamodbav:"weight_lbs"`
	ChronicCondition bool `dynamodbav:"chronic_condition"`
	FamilyHistory    bool `dynamodbav:"family_history"`
	Medications      bool `dynamodbav:"medications"`
}

type InputsItem struct {
	ProductType string      `dynamodbav:"product_type"`
	Style       string      `dynamodbav:"style,omitempty"`
	State       string      `dynamodbav:"state,omitempty"`
	Age         int         `dynamodbav:"age"`
	Gender      string      `dynamodbav:"gender"`
	Tobacco     bool        `dynamodbav:"tobacco"`
	Coverage    string      `dynamodbav:"coverage"`
	Health      *HealthItem `dynamodbav:"health,omitempty"`
}

type EstimateItem struct {
	Outcome      string `dynamodbav:"outcome"`
	Coverage     int64  `dynamodbav:"coverage"`
	MaxCoverage  int64  `dynamodbav:"max_coverage"`
	Low          string `dynamodbav:"low"`
	High         string `dynamodbav:"high"`
	HealthClass  string `dynamodbav:"health_class,omitempty"`
	RatesVersion string `dynamodbav:"rates_version"`
}

type ClaimedEstimateItem struct {
	Low           string `dynamodbav:"low"`
	High          string `dynamodbav:"high"`
	RequiresAgent bool   `dynamodbav:"requires_agent,omitempty"`
}

type NotificationItem struct {
	Status      string `dynamodbav:"status"`
	AttemptedAt string `dynamodbav:"attempted_at,omitempty"`
	Error       string `dynamodbav:"error,omitempty"`
}

type CRMItem struct {
	ContactID string `dynamodbav:"contact_id,omitempty"`
	Attempts  int    `dynamodbav:"attempts"`
	LastError string `dynamodbav:"last_error,omitempty"`
}

// LeadItem keeps crm_status and created_at at the top level: they key the
// crm_status-index GSI.
type LeadItem struct {
	ID              string               `dynamodbav:"id"`
	Kind            string               `dynamodbav:"kind"`
	Contact         ContactItem          `dynamodbav:"contact"`
	Message         string               `dynamodbav:"message,omitempty"`
	ProductType     string               `dynamodbav:"product_type,omitempty"`
	Inputs          *InputsItem          `dynamodbav:"inputs,omitempty"`
	ClaimedEstimate *ClaimedEstimateItem `dynamodbav:"claimed_estimate,omitempty"`
	Estimate        *EstimateItem        `dynamodbav:"estimate,omitempty"`
	Source          string               `dynamodbav:"source,omitempty"`
	ClientCreatedAt string               `dynamodbav:"client_created_at,omitempty"`
	Notification    NotificationItem     `dynamodbav:"notification"`
	CRMStatus       string               `dynamodbav:"crm_status"`
	CRM             CRMItem              `dynamodbav:"crm"`
	CreatedAt       string               `dynamodbav:"created_at"`
	UpdatedAt       string               `dynamodbav:"updated_at"`
}

func (i LeadItem) ToCore() core.Lead {
	l := core.Lead{
		ID:   i.ID,
		Kind: core.LeadKind(i.Kind),
		Contact: core.ContactInfo{
			FirstName: i.Contact.FirstName,
			LastName:  i.Contact.LastName,
			Email:     i.Contact.Email,
			Phone:     i.Contact.Phone,
			State:     i.Contact.State,
			Consent:   i.Contact.Consent,
		},
		Message:         i.Message,
		Product:         rates.Product(i.ProductType),
		Source:          i.Source,
		ClientCreatedAt: parseTimePtr(i.ClientCreatedAt),
		Notification: core.Notification{
			Status:      core.NotificationStatus(i.Notification.Status),
			AttemptedAt: parseTimePtr(i.Notification.AttemptedAt),
			Error:       i.Notification.Error,
		},
		CRM: core.CRMState{
			Status:    core.CRMStatus(i.CRMStatus),
			ContactID: i.CRM.ContactID,
			Attempts:  i.CRM.Attempts,
			LastError: i.CRM.LastError,
		},
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
	if in := i.Inputs; in != nil {
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
	if c := i.ClaimedEstimate; c != nil {
		l.ClaimedEstimate = &core.ClaimedEstimate{Low: parseDecimal(c.Low), High: parseDecimal(c.High), RequiresAgent: c.RequiresAgent}
	}
	if e := i.Estimate; e != nil {
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

func leadItemFromCore(l core.Lead) LeadItem {
	item := LeadItem{
		ID:   l.ID,
		Kind: string(l.Kind),
		Contact: ContactItem{
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
		ClientCreatedAt: formatTimePtr(l.ClientCreatedAt),
		Notification:    notificationItem(l.Notification),
		CRMStatus:       string(l.CRM.Status),
		CRM:             crmItem(l.CRM),
		CreatedAt:       formatTime(l.CreatedAt),
		UpdatedAt:       formatTime(l.UpdatedAt),
	}
	if in := l.Inputs; in != nil {
		item.Inputs = &InputsItem{
			ProductType: string(in.Product),
			Style:       string(in.Style),
			State:       in.State,
			Age:         in.Age,
			Gender:      string(in.Gender),
			Tobacco:     in.Tobacco,
			Coverage:    in.Coverage,
		}
		if h := in.Health; h != nil {
			item.Inputs.Health = &HealthItem{
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
		item.ClaimedEstimate = &ClaimedEstimateItem{Low: c.Low.String(), High: c.High.String(), RequiresAgent: c.RequiresAgent}
	}
	if e := l.Estimate; e != nil {
		item.Estimate = &EstimateItem{
			Outcome:      string(e.Outcome),
			Coverage:     e.Coverage,
			MaxCoverage:  e.MaxCoverage,
			Low:          e.Low.String(),
			High:         e.High.String(),
			HealthClass:  string(e.HealthClass),
			RatesVersion: e.RatesVersion,
		}
	}
	return item
}

func notificationItem(n core.Notification) NotificationItem {
	return NotificationItem{Status: string(n.Status), AttemptedAt: formatTimePtr(n.AttemptedAt), Error: n.Error}
}

func crmItem(s core.CRMState) CRMItem {
	return CRMItem{ContactID: s.ContactID, Attempts: s.Attempts, LastError: s.LastError}
}

// RFC3339Nano in UTC sorts lexically, which the GSI range key relies on.
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type LeadRepo struct {
	client *dynamodb.Client
	table  string
}

func NewLeadRepo(client *dynamodb.Client, table string) *LeadRepo {
	if table == "" {
		table = DefaultLeadsTable
	}
	return &LeadRepo{client: client, table: table}
}

func (r *LeadRepo) Create(ctx context.Context, lead core.Lead) error {
	av, err := attributevalue.MarshalMap(leadItemFromCore(lead))
	if err != nil {
		return fmt.Errorf("leads.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("leads.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: lead %s already exists", core.ErrConflict, lead.ID)
		}
		return fmt.Errorf("leads.putItem: %w", err)
	}
	return nil
}

func (r *LeadRepo) Get(ctx context.Context, id string) (core.Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Lead{}, fmt.Errorf("leads.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Lead{}, fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
	}

	var item LeadItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Lead{}, fmt.Errorf("leads.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *LeadRepo) UpdateNotification(ctx context.Context, id string, n core.Notification, updatedAt time.Time) error {
	update := expression.
		Set(expression.Name("notification"), expression.Value(notificationItem(n))).
		Set(expression.Name("updated_at"), expression.Value(formatTime(updatedAt)))
	return r.update(ctx, id, update)
}

func (r *LeadRepo) UpdateCRM(ctx context.Context, id string, state core.CRMState, updatedAt time.Time) error {
	update := expression.
		Set(expression.Name("crm_status"), expression.Value(string(state.Status))).
		Set(expression.Name("crm"), expression.Value(crmItem(state))).
		Set(expression.Name("updated_at"), expression.Value(formatTime(updatedAt)))
	return r.update(ctx, id, update)
}

func (r *LeadRepo) update(ctx context.Context, id string, update expression.UpdateBuilder) error {
	cond := expression.AttributeExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("leads.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
		}
		return fmt.Errorf("leads.updateItem: %w", err)
	}
	return nil
}

func (r *LeadRepo) FindPendingCRM(ctx context.Context, limit int) ([]core.Lead, error) {
	keyCond := expression.Key("crm_status").Equal(expression.Value(string(core.CRMPending)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("leads.buildExpr: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(GSICRMStatus),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("leads.query: %w", err)
	}

	var items []LeadItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("leads.unmarshal: %w", err)
	}

	leads := make([]core.Lead, len(items))
	for i, item := range items {
		leads[i] = item.ToCore()
	}
	return leads, nil
}
