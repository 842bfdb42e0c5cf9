package backends_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
)

// fakeSecretsManager is an in-memory stand-in for the AWS client.
type fakeSecretsManager struct {
	secrets map[string]string
}

func newFakeSecretsManager() *fakeSecretsManager {
	return &fakeSecretsManager{secrets: make(map[string]string)}
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := f.secrets[aws.ToString(params.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(value)}, nil
}

func (f *fakeSecretsManager) CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	name := aws.ToString(params.Name)
	if _, exists := f.secrets[name]; exists {
		return nil, &types.ResourceExistsException{}
	}
	f.secrets[name] = aws.ToString(params.SecretString)
	return &secretsmanager.CreateSecretOutput{Name: params.Name}, nil
}

func (f *fakeSecretsManager) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	name := aws.ToString(params.SecretId)
	if _, exists := f.secrets[name]; !exists {
		return nil, &types.ResourceNotFoundException{}
	}
	f.secrets[name] = aws.ToString(params.SecretString)
	return &secretsmanager.PutSecretValueOutput{Name: params.SecretId}, nil
}

func (f *fakeSecretsManager) DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	name := aws.ToString(params.SecretId)
	if _, exists := f.secrets[name]; !exists {
		return nil, &types.ResourceNotFoundException{}
	}
	delete(f.secrets, name)
	return &secretsmanager.DeleteSecretOutput{Name: params.SecretId}, nil
}

func (f *fakeSecretsManager) ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	out := &secretsmanager.ListSecretsOutput{}
	for name := range f.secrets {
		out.SecretList = append(out.SecretList, types.SecretListEntry{Name: aws.String(name)})
	}
	return out, nil
}

func TestAWSBackendRoundTrip(t *testing.T) {
	t.Parallel()
	client := newFakeSecretsManager()
	b := backends.NewAWSBackendWithClient(client)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "telegram-bot-token", "first"))
	assert.Contains(t, client.secrets, "openclaw-secure/telegram-bot-token",
		"keys are namespaced under the tool prefix")

	value, found, err := b.Get(ctx, "telegram-bot-token")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first", value)

	// Second set must update through PutSecretValue, not fail on the
	// existing resource.
	require.NoError(t, b.Set(ctx, "telegram-bot-token", "second"))
	value, _, err = b.Get(ctx, "telegram-bot-token")
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, b.Delete(ctx, "telegram-bot-token"))
	_, found, err = b.Get(ctx, "telegram-bot-token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAWSBackendAbsentIsNotError(t *testing.T) {
	t.Parallel()
	b := backends.NewAWSBackendWithClient(newFakeSecretsManager())
	_, found, err := b.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAWSBackendDeleteAbsentIsNoOp(t *testing.T) {
	t.Parallel()
	b := backends.NewAWSBackendWithClient(newFakeSecretsManager())
	assert.NoError(t, b.Delete(context.Background(), "missing"))
}

func TestAWSBackendList(t *testing.T) {
	t.Parallel()
	client := newFakeSecretsManager()
	client.secrets["openclaw-secure/a-key"] = "1"
	client.secrets["unrelated-secret"] = "2"

	b := backends.NewAWSBackendWithClient(client)
	keys, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a-key"}, keys)
}
