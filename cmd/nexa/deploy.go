package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/krishpranav/nexa/internal/config"
	"github.com/krishpranav/nexa/internal/errors"
)

func deployCmd() *cobra.Command {
	var bucket string
	var prefix string
	var region string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the build output to S3",
		Long: `Upload everything under the configured output directory to the
deploy.bucket S3 bucket. Credentials come from the standard AWS
environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
AWS_SESSION_TOKEN).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}
			if bucket == "" {
				bucket = cfg.Deploy.Bucket
			}
			if prefix == "" {
				prefix = cfg.Deploy.Prefix
			}
			if region == "" {
				region = cfg.Deploy.Region
			}
			if bucket == "" {
				return errors.New("E301").WithDetail("no bucket configured").
					WithSuggestion("set deploy.bucket in nexa.json or pass --bucket")
			}

			client := s3.New(s3.Options{
				Region:      region,
				Credentials: aws.NewCredentialsCache(envCredentials{}),
			})

			out := filepath.Join(cwd, cfg.Build.Output)
			count, err := uploadDir(cmd.Context(), client, out, bucket, prefix)
			if err != nil {
				return errors.New("E301").Wrap(err)
			}
			fmt.Printf("  deployed %d object(s) to s3://%s/%s\n", count, bucket, prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (overrides nexa.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")

	return cmd
}

// uploadDir walks dir and puts every regular file under bucket/prefix.
func uploadDir(ctx context.Context, client *s3.Client, dir, bucket, prefix string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		key := strings.TrimPrefix(prefix+filepath.ToSlash(rel), "/")
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        f,
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// envCredentials reads static credentials from the environment, the
// subset of the default chain this CLI needs without pulling in the
// full config module.
type envCredentials struct{}

func (envCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY not set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
