package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadsService obtains presigned upload URLs from the backend and pushes
// file content to them. Only the presign exchange is an authenticated portal
// call; the PUT goes straight to object storage without a bearer token.
type UploadsService struct {
	client *Client
}

// Uploads returns the file-upload endpoints.
func (c *Client) Uploads() *UploadsService {
	return &UploadsService{client: c}
}

// PresignedUpload is the backend's answer to a presign request: where to PUT
// the bytes and the id the file will be referenced by.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	PDFID     string `json:"pdf_id,omitempty"`
	ImgID     string `json:"img_id,omitempty"`
}

// FileID returns whichever id the backend assigned.
func (p PresignedUpload) FileID() string {
	if p.PDFID != "" {
		return p.PDFID
	}
	return p.ImgID
}

type presignRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// PresignPDF requests an upload slot for a new PDF.
func (s *UploadsService) PresignPDF(ctx context.Context, fileName string) (*PresignedUpload, error) {
	return s.presign(ctx, "pdfs/pdf-presigned-url/", fileName, "application/pdf")
}

// PresignImage requests an upload slot for a new image.
func (s *UploadsService) PresignImage(ctx context.Context, fileName, contentType string) (*PresignedUpload, error) {
	return s.presign(ctx, "imgs/img-presigned-url/", fileName, contentType)
}

// PresignPDFUpdate requests an upload slot that replaces an existing PDF.
func (s *UploadsService) PresignPDFUpdate(ctx context.Context, id, fileName string) (*PresignedUpload, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPatch,
		fmt.Sprintf("pdfs/%s/pdf-presigned-update/", id),
		presignRequest{FileName: fileName, ContentType: "application/pdf"})
	if err != nil {
		return nil, err
	}
	var presigned PresignedUpload
	if err := s.client.do(req, &presigned); err != nil {
		return nil, err
	}
	return &presigned, nil
}

func (s *UploadsService) presign(ctx context.Context, path, fileName, contentType string) (*PresignedUpload, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPost, path,
		presignRequest{FileName: fileName, ContentType: contentType})
	if err != nil {
		return nil, err
	}
	var presigned PresignedUpload
	if err := s.client.do(req, &presigned); err != nil {
		return nil, err
	}
	return &presigned, nil
}

// Put uploads the file content to a presigned URL.
func (s *UploadsService) Put(ctx context.Context, uploadURL, contentType string, content io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, content)
	if err != nil {
		return fmt.Errorf("[portal] build upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Presigned URLs carry their own authorization; the bearer pipeline is
	// deliberately bypassed.
	resp, err := s.client.send(req)
	if err != nil {
		return fmt.Errorf("[portal] upload: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
	}
	return nil
}
