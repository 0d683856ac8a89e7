package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogsClient ships log lines to a CloudWatch Logs stream.
type CloudWatchLogsClient struct {
	client        *cloudwatchlogs.Client
	logGroupName  string
	logStreamName string

	mu            sync.Mutex
	sequenceToken *string
	enabled       bool
}

// NewCloudWatchLogsClient creates the group and stream when CLOUDWATCH_ENABLED=true.
func NewCloudWatchLogsClient(ctx context.Context, serviceName string) (*CloudWatchLogsClient, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	logGroupName := os.Getenv("CLOUDWATCH_LOG_GROUP")
	if logGroupName == "" {
		logGroupName = "/storefront/" + serviceName
	}

	c := &CloudWatchLogsClient{
		client:        cloudwatchlogs.NewFromConfig(cfg),
		logGroupName:  logGroupName,
		logStreamName: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		enabled:       os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}

	if c.enabled {
		if err := c.ensureLogGroup(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure log group: %w", err)
		}
		if _, err := c.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
			LogGroupName:  aws.String(c.logGroupName),
			LogStreamName: aws.String(c.logStreamName),
		}); err != nil {
			return nil, fmt.Errorf("failed to create log stream: %w", err)
		}
	}

	return c, nil
}

func (c *CloudWatchLogsClient) ensureLogGroup(ctx context.Context) error {
	_, err := c.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(c.logGroupName),
	})
	if err != nil {
		var existsErr *types.ResourceAlreadyExistsException
		if !errors.As(err, &existsErr) {
			return err
		}
	}

	_, err = c.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(c.logGroupName),
		RetentionInDays: aws.Int32(14),
	})
	if err != nil {
		return fmt.Errorf("failed to set retention policy: %w", err)
	}
	return nil
}

// Write implements io.Writer so the client can be tee'd into zap.
// Shipping failures are reported on stderr and never fail the write.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	if !c.enabled {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := c.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(c.logGroupName),
		LogStreamName: aws.String(c.logStreamName),
		SequenceToken: c.sequenceToken,
		LogEvents: []types.InputLogEvent{{
			Message:   aws.String(string(p)),
			Timestamp: aws.Int64(time.Now().UnixMilli()),
		}},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CloudWatch write error: %v\n", err)
		return len(p), nil
	}
	c.sequenceToken = out.NextSequenceToken
	return len(p), nil
}

// IsEnabled returns whether CloudWatch logging is enabled
func (c *CloudWatchLogsClient) IsEnabled() bool {
	return c.enabled
}
