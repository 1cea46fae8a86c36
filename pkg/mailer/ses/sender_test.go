package ses_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postbox/pkg/mailer"
	"github.com/dmitrymomot/postbox/pkg/mailer/ses"
)

type fakeAPI struct {
	input *sesv2.SendEmailInput
	out   *sesv2.SendEmailOutput
	err   error
}

func (f *fakeAPI) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	return f.out, f.err
}

func newEmail() *mailer.Email {
	return &mailer.Email{
		To:      []string{"user@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		ReplyTo: "reply@example.com",
		Tags:    mailer.Tags{"kind": "contact", "form": struct{}{}},
	}
}

func withStatus(err error, status int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      err,
		},
	}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("builds the request", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{out: &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}}
		s := ses.NewWithAPI(api, ses.Config{SenderEmail: "default@example.com", ConfigurationSet: "tracking"})

		res, err := s.Send(context.Background(), newEmail())
		require.NoError(t, err)
		assert.Equal(t, &mailer.Result{ID: "ses-1", Status: mailer.StatusSent}, res)

		in := api.input
		assert.Equal(t, "default@example.com", aws.ToString(in.FromEmailAddress))
		assert.Equal(t, []string{"user@example.com"}, in.Destination.ToAddresses)
		assert.Equal(t, []string{"reply@example.com"}, in.ReplyToAddresses)
		assert.Equal(t, "tracking", aws.ToString(in.ConfigurationSetName))
		assert.Equal(t, "Hello", aws.ToString(in.Content.Simple.Subject.Data))
		assert.Equal(t, "<p>Hi</p>", aws.ToString(in.Content.Simple.Body.Html.Data))
		assert.Equal(t, "Hi", aws.ToString(in.Content.Simple.Body.Text.Data))
		require.Len(t, in.EmailTags, 2)
		assert.Equal(t, "form", aws.ToString(in.EmailTags[0].Name))
		assert.Equal(t, "true", aws.ToString(in.EmailTags[0].Value))
		assert.Equal(t, "contact", aws.ToString(in.EmailTags[1].Value))
	})

	t.Run("requires a sender", func(t *testing.T) {
		t.Parallel()

		s := ses.NewWithAPI(&fakeAPI{}, ses.Config{})
		_, err := s.Send(context.Background(), newEmail())
		require.ErrorIs(t, err, mailer.ErrNoSender)
	})
}

func TestSender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind mailer.ErrorKind
	}{
		{
			name: "bad credentials",
			err:  withStatus(&smithy.GenericAPIError{Code: "UnrecognizedClientException", Message: "The security token included in the request is invalid."}, 403),
			kind: mailer.KindAuth,
		},
		{
			name: "access denied",
			err:  &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"},
			kind: mailer.KindAuth,
		},
		{
			name: "rejected message",
			err:  &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."},
			kind: mailer.KindInvalidRequest,
		},
		{
			name: "http 400",
			err:  withStatus(&smithy.GenericAPIError{Code: "SomethingElse", Message: "nope"}, 400),
			kind: mailer.KindInvalidRequest,
		},
		{
			name: "unverified domain",
			err:  withStatus(&smithy.GenericAPIError{Code: "MailFromDomainNotVerifiedException", Message: "MAIL FROM domain is not verified"}, 412),
			kind: mailer.KindDomain,
		},
		{
			name: "throttled",
			err:  withStatus(&smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "slow down"}, 429),
			kind: mailer.KindUnknown,
		},
		{
			name: "transport failure",
			err:  errors.New("dial tcp: connection refused"),
			kind: mailer.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := ses.NewWithAPI(&fakeAPI{err: tt.err}, ses.Config{SenderEmail: "a@example.com"})
			_, err := s.Send(context.Background(), newEmail())
			require.Error(t, err)
			assert.Equal(t, tt.kind, mailer.Classify(err))
		})
	}
}
