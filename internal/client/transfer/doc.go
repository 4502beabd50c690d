// Package transfer fetches remote documents to local files. Plain HTTP(S)
// URLs are fetched directly; s3:// URLs are turned into presigned GET requests
// against the configured S3-compatible endpoint first.
package transfer
