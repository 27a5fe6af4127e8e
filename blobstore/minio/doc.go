// Package minio provides a BlobStore implementation using the MinIO client.
//
// It talks to MinIO and other S3-compatible services (Ceph, SeaweedFS,
// Garage) without the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := minioblob.NewStore(client, "graph", "features/")
//
// NewFromEnv builds the client from the standard AWS environment variables
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION) and switches to IAM
// web identity credentials when AWS_ROLE_ARN and AWS_WEB_IDENTITY_TOKEN_FILE
// are set.
package minio
