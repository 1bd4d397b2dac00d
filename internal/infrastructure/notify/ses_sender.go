package notify

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// SESSender delivers email through Amazon SES v2.
type SESSender struct {
	client sesAPI
	sender string
}

// NewSESSender uses static credentials when both keys are set and the default
// AWS credential chain otherwise.
func NewSESSender(ctx context.Context, cfg SESConfig) (*SESSender, error) {
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, crerr.New("ses region is required")
	}
	if strings.TrimSpace(cfg.Sender) == "" {
		return nil, crerr.New("ses sender is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "load aws config")
	}

	return newSESSender(sesv2.NewFromConfig(awsCfg), cfg.Sender), nil
}

func newSESSender(client sesAPI, sender string) *SESSender {
	return &SESSender{client: client, sender: strings.TrimSpace(sender)}
}

func (s *SESSender) Name() string { return "ses" }

func (s *SESSender) Send(ctx context.Context, msg notification.Message) error {
	if msg.To == "" {
		return crerr.New("recipient is required")
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(renderText(msg))},
				},
			},
		},
		FromEmailAddress: aws.String(s.sender),
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return crerr.Wrapf(err, "send ses email kind=%s", msg.Kind)
	}
	return nil
}
