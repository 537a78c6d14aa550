// Package notify publishes case lifecycle events to SNS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// EventCaseRegistered is sent as the eventType message attribute.
const EventCaseRegistered = "case.registered"

// Publisher is the subset of *sns.Client the hook uses.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSHook announces registered cases on a topic.
type SNSHook struct {
	client   Publisher
	topicARN string
}

// NewSNSClient loads the default AWS credential chain for region.
func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

func NewSNSHook(client Publisher, topicARN string) *SNSHook {
	return &SNSHook{client: client, topicARN: topicARN}
}

func (h *SNSHook) Name() string { return "sns" }

func (h *SNSHook) AfterRegister(ctx context.Context, ev models.CaseRegisteredEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = h.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.topicARN),
		Subject:  aws.String("Legal case " + ev.CaseNumber + " registered"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(EventCaseRegistered)},
			"companyId": {DataType: aws.String("String"), StringValue: aws.String(ev.CompanyID)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", h.topicARN, err)
	}
	return nil
}
