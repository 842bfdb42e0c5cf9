package backends

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// awsPrefix namespaces this tool's secrets in AWS Secrets Manager.
const awsPrefix = "openclaw-secure/"

// SecretsManagerAPI is the subset of the AWS Secrets Manager client this
// backend uses. It exists so tests can inject a fake.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWSBackend stores secrets in AWS Secrets Manager under the tool's name
// prefix.
type AWSBackend struct {
	client SecretsManagerAPI
	region string
}

// NewAWSBackend creates the Secrets Manager backend. Options: region
// (default us-east-1), endpoint plus access_key_id/secret_access_key for
// LocalStack-style testing.
func NewAWSBackend(options map[string]any) (*AWSBackend, error) {
	region := "us-east-1"
	if r, ok := options["region"].(string); ok && r != "" {
		region = r
	}
	var endpoint string
	if e, ok := options["endpoint"].(string); ok {
		endpoint = e
	}
	var accessKeyID, secretAccessKey string
	if ak, ok := options["access_key_id"].(string); ok {
		accessKeyID = ak
	}
	if sk, ok := options["secret_access_key"].(string); ok {
		secretAccessKey = sk
	}

	configOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &AWSBackend{
		client: secretsmanager.NewFromConfig(cfg, clientOpts...),
		region: region,
	}, nil
}

// NewAWSBackendWithClient injects a custom client, for tests.
func NewAWSBackendWithClient(client SecretsManagerAPI) *AWSBackend {
	return &AWSBackend{client: client, region: "us-east-1"}
}

func (b *AWSBackend) Name() string { return "awssm" }

// Available probes the API with a minimal list call.
func (b *AWSBackend) Available(ctx context.Context) bool {
	_, err := b.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	return err == nil
}

func (b *AWSBackend) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := b.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(awsPrefix + key),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: err}
	}
	if out.SecretString == nil {
		return "", false, backend.OperationError{
			Backend: b.Name(), Op: "get", Key: key,
			Err: errors.New("secret has no string value"),
		}
	}
	return *out.SecretString, true, nil
}

func (b *AWSBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(awsPrefix + key),
		SecretString: aws.String(value),
	})
	if err == nil {
		return nil
	}
	var exists *types.ResourceExistsException
	if !errors.As(err, &exists) {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: err}
	}
	_, err = b.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(awsPrefix + key),
		SecretString: aws.String(value),
	})
	if err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: err}
	}
	return nil
}

func (b *AWSBackend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(awsPrefix + key),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return backend.OperationError{Backend: b.Name(), Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (b *AWSBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	var nextToken *string
	for {
		out, err := b.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
			NextToken: nextToken,
			Filters: []types.Filter{{
				Key:    types.FilterNameStringTypeName,
				Values: []string{awsPrefix},
			}},
		})
		if err != nil {
			return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: err}
		}
		for _, entry := range out.SecretList {
			if entry.Name != nil && strings.HasPrefix(*entry.Name, awsPrefix) {
				keys = append(keys, strings.TrimPrefix(*entry.Name, awsPrefix))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return keys, nil
}
