package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/smithy-go"
)

// Client wraps the AWS SSO portal API
type Client struct {
	cfg       aws.Config
	ssoClient *sso.Client
}

// NewClient initializes the SSO client for a specific region
func NewClient(ctx context.Context, region string, optFns ...func(*sso.Options)) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return newClientFromConfig(cfg, optFns...), nil
}

func newClientFromConfig(cfg aws.Config, optFns ...func(*sso.Options)) *Client {
	return &Client{
		cfg:       cfg,
		ssoClient: sso.NewFromConfig(cfg, optFns...),
	}
}

// ListAccounts lists the AWS accounts the access token can reach, sorted by name
func (c *Client) ListAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var accounts []Account
	var nextToken *string

	for {
		resp, err := c.ssoClient.ListAccounts(ctx, &sso.ListAccountsInput{
			AccessToken: aws.String(accessToken),
			NextToken:   nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", describeAPIError(err))
		}

		for _, acc := range resp.AccountList {
			accounts = append(accounts, Account{
				Name:      aws.ToString(acc.AccountName),
				AccountID: aws.ToString(acc.AccountId),
				Email:     aws.ToString(acc.EmailAddress),
			})
		}

		nextToken = resp.NextToken
		if nextToken == nil {
			break
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

// Region returns the configured AWS region
func (c *Client) Region() string {
	return c.cfg.Region
}

// describeAPIError puts the service error code and message first
func describeAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s: %w", apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}
	return err
}
