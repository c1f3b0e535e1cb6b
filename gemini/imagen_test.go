package gemini

import (
	"encoding/base64"
	"testing"
)

func TestDecodePrediction(t *testing.T) {
	t.Run("Valid Prediction", func(t *testing.T) {
		image := []byte("png bytes")
		prediction := map[string]interface{}{
			"bytesBase64Encoded": base64.StdEncoding.EncodeToString(image),
			"mimeType":           "image/png",
		}

		data, err := decodePrediction(prediction)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != string(image) {
			t.Errorf("decoded %q, want %q", data, image)
		}
	})

	t.Run("Wrong Shape", func(t *testing.T) {
		if _, err := decodePrediction("not a map"); err == nil {
			t.Error("expected an error for a non-map prediction")
		}
	})

	t.Run("Missing Image Bytes", func(t *testing.T) {
		prediction := map[string]interface{}{"mimeType": "image/png"}
		if _, err := decodePrediction(prediction); err == nil {
			t.Error("expected an error when image bytes are absent")
		}
	})

	t.Run("Bad Base64", func(t *testing.T) {
		prediction := map[string]interface{}{"bytesBase64Encoded": "!!!"}
		if _, err := decodePrediction(prediction); err == nil {
			t.Error("expected a decode error")
		}
	})
}
