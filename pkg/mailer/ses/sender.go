package ses

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/postbox/pkg/mailer"
)

const (
	providerName = "ses"
	charset      = "UTF-8"
)

// API is the subset of the SES v2 client used by Sender.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements mailer.Sender using AWS SES v2.
//
// SES has no per-message status endpoint, so a successful submission is
// reported as sent and the Dispatcher does not poll.
type Sender struct {
	api    API
	config Config
}

// New loads AWS configuration and creates a sender.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	return NewWithAPI(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewWithAPI creates a sender around an existing client.
func NewWithAPI(api API, cfg Config) *Sender {
	return &Sender{api: api, config: cfg}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.Result, error) {
	from := email.From
	if from == "" {
		from = s.config.SenderEmail
	}
	if from == "" {
		return nil, mailer.ErrNoSender
	}

	body := &types.Body{}
	if email.HTML != "" {
		body.Html = &types.Content{Data: aws.String(email.HTML), Charset: aws.String(charset)}
	}
	if email.Text != "" {
		body.Text = &types.Content{Data: aws.String(email.Text), Charset: aws.String(charset)}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: email.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
		EmailTags: convertTags(email.Tags),
	}
	if email.ReplyTo != "" {
		input.ReplyToAddresses = []string{email.ReplyTo}
	}
	if s.config.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(s.config.ConfigurationSet)
	}

	out, err := s.api.SendEmail(ctx, input)
	if err != nil {
		return nil, normalizeError(err)
	}

	return &mailer.Result{ID: aws.ToString(out.MessageId), Status: mailer.StatusSent}, nil
}

// normalizeError maps SES API errors to *mailer.ProviderError using the
// service error code and the HTTP status of the response.
func normalizeError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	pe := &mailer.ProviderError{
		Err:      err,
		Provider: providerName,
		Message:  apiErr.ErrorMessage(),
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.StatusCode = respErr.HTTPStatusCode()
	}

	switch code := apiErr.ErrorCode(); code {
	case "UnrecognizedClientException", "InvalidClientTokenId",
		"AccessDeniedException", "SignatureDoesNotMatch", "MissingAuthenticationToken":
		pe.Code = mailer.CodeUnauthorized
	case "BadRequestException", "MessageRejected", "ValidationException":
		pe.Code = mailer.CodeInvalidRequest
	default:
		pe.Code = code
	}

	return pe
}

func convertTags(tags mailer.Tags) []types.MessageTag {
	if len(tags) == 0 {
		return nil
	}

	result := make([]types.MessageTag, 0, len(tags))
	for _, name := range slices.Sorted(maps.Keys(tags)) {
		value := "true"
		if v, ok := tags[name].(string); ok && v != "" {
			value = v
		}
		result = append(result, types.MessageTag{Name: aws.String(name), Value: aws.String(value)})
	}
	return result
}

var _ mailer.Sender = (*Sender)(nil)
