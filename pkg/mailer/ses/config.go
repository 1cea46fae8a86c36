package ses

// Config holds AWS SES settings. Static keys are optional; without them the
// default AWS credential chain is used.
type Config struct {
	Region           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	SenderEmail      string `env:"SES_FROM_EMAIL"`
	ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
}
