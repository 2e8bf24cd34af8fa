package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	googleSheetMimeType = "application/vnd.google-apps.spreadsheet"
	xlsxMimeType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DriveDownloader retrieves catalog spreadsheets through the Google Drive API.
// Native Google Sheets are exported as xlsx; uploaded xlsx files are
// downloaded as stored.
// Implements Downloader
type DriveDownloader struct {
	client *drive.Service
	logger *zap.Logger
}

// NewDriveDownloader creates a new DriveDownloader
// credentialsPath should be the path to the Service Account JSON file
func NewDriveDownloader(ctx context.Context, credentialsPath string, logger *zap.Logger) (*DriveDownloader, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveDownloader{client: driveService, logger: logger}, nil
}

// Ensure DriveDownloader implements Downloader
var _ Downloader = (*DriveDownloader)(nil)

func (d *DriveDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := d.client.Files.Get(fileID).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	var resp *http.Response
	if file.MimeType == googleSheetMimeType {
		d.logger.Debug("📄 exporting google sheet as xlsx", zap.String("fileId", fileID), zap.String("name", file.Name))
		resp, err = d.client.Files.Export(fileID, xlsxMimeType).Context(ctx).Download()
	} else {
		d.logger.Debug("📄 downloading drive file", zap.String("fileId", fileID), zap.String("name", file.Name), zap.String("mimeType", file.MimeType))
		resp, err = d.client.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("drive returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}
