package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"
)

// Settings is the resolved runtime configuration. Environment and Project
// come from the process env first, then SSM Parameter Store, then defaults;
// everything else is env-only.
type Settings struct {
	Region      string
	Environment string
	Project     string
	Port        string

	InstanceID    string
	ContactFlowID string
	QueueID       string // optional outbound routing queue
	SourcePhone   string

	PollInterval time.Duration
}

// ParamsAPI is the slice of the SSM client used for parameter fallback.
type ParamsAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Region resolves the AWS region before the clients exist.
func Region() string {
	return getenvDefault("AWS_REGION", "us-west-2")
}

// LoadSettings resolves all settings. params may be nil, in which case the
// SSM fallback is skipped.
func LoadSettings(ctx context.Context, params ParamsAPI, log *logrus.Logger) Settings {
	s := Settings{
		Region:      Region(),
		Environment: os.Getenv("environment"),
		Project:     os.Getenv("project"),
		Port:        getenvDefault("PORT", "8080"),

		InstanceID:  getenvDefault("CONNECT_INSTANCE_ID", "your-connect-instance-id"),
		QueueID:     os.Getenv("CONNECT_QUEUE_ID"),
		SourcePhone: getenvDefault("CONNECT_SOURCE_PHONE", "your-connect-phone-number"),

		PollInterval: time.Second,
	}

	if s.Environment == "" && params != nil {
		s.Environment = ssmParameter(ctx, params, getenvDefault("ENVIRONMENT_SSM_PARAM", "/travoiq/environment"), log)
	}
	if s.Project == "" && params != nil {
		s.Project = ssmParameter(ctx, params, getenvDefault("PROJECT_SSM_PARAM", "/travoiq/project"), log)
	}
	if s.Environment == "" {
		s.Environment = "stage"
	}
	if s.Project == "" {
		s.Project = "travoiq"
	}

	// CONNECT_CONTACT_FLOW_ARN wins over CONNECT_CONTACT_FLOW_ID
	s.ContactFlowID = getenvDefault("CONNECT_CONTACT_FLOW_ID", "your-contact-flow-id")
	if arn := os.Getenv("CONNECT_CONTACT_FLOW_ARN"); strings.Contains(arn, "/contact-flow/") {
		s.ContactFlowID = arn[strings.LastIndex(arn, "/contact-flow/")+len("/contact-flow/"):]
	}

	if v := os.Getenv("TRANSCRIPT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.PollInterval = d
		} else {
			log.WithField("value", v).Warn("invalid TRANSCRIPT_POLL_INTERVAL, using default")
		}
	}
	return s
}

func (s Settings) tablePrefix() string {
	return s.Environment + "-" + s.Project + "-recording-"
}

func (s Settings) DetailsTable() string {
	return s.tablePrefix() + "contactDetails"
}

func (s Settings) CustomerSegmentsTable() string {
	return s.tablePrefix() + "contactTranscriptSegments"
}

func (s Settings) AgentSegmentsTable() string {
	return s.tablePrefix() + "contactTranscriptSegmentsToCustomer"
}

func ssmParameter(ctx context.Context, params ParamsAPI, name string, log *logrus.Logger) string {
	out, err := params.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.WithError(err).WithField("param", name).Warn("unable to load SSM parameter")
		return ""
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		log.WithField("param", name).Warn("SSM parameter empty")
		return ""
	}
	log.WithField("param", name).Info("loaded SSM parameter")
	return aws.ToString(out.Parameter.Value)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
