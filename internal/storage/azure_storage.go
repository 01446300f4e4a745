package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-chart-digitizer/internal/errors"
)

// AzureImageFetcher implements ChartImageFetcher for chart snapshots archived
// in Azure blob storage. The source URL names the container in its path and
// the blob in the "blob" query parameter.
type AzureImageFetcher struct {
	client *azblob.Client
}

// NewAzureImageFetcher creates a blob-backed chart image fetcher
func NewAzureImageFetcher(accountName string, accountKey string) (ChartImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureImageFetcher{client: client}, nil
}

// FetchImage downloads and decodes a chart image from blob storage
func (s *AzureImageFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	parsedURL, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if parsedURL.Path == "" || parsedURL.Path == "/" {
		return nil, fmt.Errorf("blob URL missing container name")
	}

	containerName := parsedURL.Path[1:] // Remove leading slash
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return nil, fmt.Errorf("blob URL missing blob query parameter")
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := image.Decode(retryReader)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode chart image", err)
	}
	return img, nil
}
