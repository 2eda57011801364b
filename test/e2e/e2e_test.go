//go:build e2e

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_Seeding tests startup corpus seeding end to end
func TestE2E_Seeding(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("seeds full corpus on empty store", func(t *testing.T) {
		env.Seed()

		resp, err := env.Get("/api/knowledge?limit=50")
		require.NoError(t, err)

		var list struct {
			Items []struct {
				ID       string `json:"id"`
				Category string `json:"category"`
				Source   string `json:"source"`
			} `json:"items"`
			HasMore bool `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		assert.Len(t, list.Items, 8)
		assert.False(t, list.HasMore)
		for _, item := range list.Items {
			assert.Equal(t, "static", item.Source)
		}
	})

	t.Run("reseeding is a no-op", func(t *testing.T) {
		env.Seed()

		resp, err := env.Get("/api/knowledge?limit=50")
		require.NoError(t, err)

		var list struct {
			Items []json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		assert.Len(t, list.Items, 8)
	})
}

// TestE2E_ChatFlow tests the session and chat round trip
func TestE2E_ChatFlow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Seed()

	var sessionID string

	t.Run("create session", func(t *testing.T) {
		resp, err := env.Post("/api/sessions/new", map[string]interface{}{"userId": "e2e-user"})
		require.NoError(t, err)

		var session struct {
			SessionID string `json:"sessionId"`
			UserID    string `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &session))
		assert.NotEmpty(t, session.SessionID)
		assert.Equal(t, "e2e-user", session.UserID)
		sessionID = session.SessionID
	})

	t.Run("same user resumes the session", func(t *testing.T) {
		resp, err := env.Post("/api/sessions/new", map[string]interface{}{"userId": "e2e-user"})
		require.NoError(t, err)

		var session struct {
			SessionID string `json:"sessionId"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &session))
		assert.Equal(t, sessionID, session.SessionID)
	})

	t.Run("chat returns grounded reply", func(t *testing.T) {
		resp, err := env.Post("/api/chat", map[string]interface{}{
			"sessionId": sessionID,
			"userId":    "e2e-user",
			"message":   "What should I do during an earthquake?",
		})
		require.NoError(t, err)

		var chat struct {
			Response    string   `json:"response"`
			ContextUsed int      `json:"context_used"`
			Categories  []string `json:"categories"`
			Debug       struct {
				Query string `json:"query"`
			} `json:"debug"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &chat))
		assert.NotEmpty(t, chat.Response)
		assert.Equal(t, 3, chat.ContextUsed)
		assert.Len(t, chat.Categories, 3)
		assert.Equal(t, "What should I do during an earthquake?", chat.Debug.Query)
	})

	t.Run("transcript records both turns", func(t *testing.T) {
		resp, err := env.Get("/api/sessions/" + sessionID)
		require.NoError(t, err)

		var session struct {
			Messages []struct {
				Text string `json:"text"`
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &session))
		require.Len(t, session.Messages, 2)
		assert.Equal(t, "user", session.Messages[0].Role)
		assert.Equal(t, "What should I do during an earthquake?", session.Messages[0].Text)
		assert.Equal(t, "model", session.Messages[1].Role)
		assert.NotEmpty(t, session.Messages[1].Text)
	})

	t.Run("reset starts a fresh session", func(t *testing.T) {
		resp, err := env.Post("/api/sessions/new", map[string]interface{}{
			"userId": "e2e-user",
			"reset":  true,
		})
		require.NoError(t, err)

		var session struct {
			SessionID string `json:"sessionId"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &session))
		assert.NotEqual(t, sessionID, session.SessionID)
	})

	t.Run("unknown session returns 404", func(t *testing.T) {
		_, err := env.Get("/api/sessions/no-such-session")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

// TestE2E_KnowledgeAdd tests adding dynamic entries through the API
func TestE2E_KnowledgeAdd(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Seed()

	t.Run("add entry", func(t *testing.T) {
		resp, err := env.Post("/api/knowledge/add", map[string]interface{}{
			"content":  "Keep an extra supply of prescription medication in your emergency kit.",
			"category": "first_aid",
			"metadata": map[string]string{"source": "e2e"},
		})
		require.NoError(t, err)

		var entry struct {
			ID       string `json:"id"`
			Source   string `json:"source"`
			Category string `json:"category"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &entry))
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "dynamic", entry.Source)
		assert.Equal(t, "first_aid", entry.Category)
	})

	t.Run("listing includes the new entry", func(t *testing.T) {
		resp, err := env.Get("/api/knowledge?limit=50")
		require.NoError(t, err)

		var list struct {
			Items []struct {
				Source string `json:"source"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		assert.Len(t, list.Items, 9)
	})

	t.Run("missing content is rejected", func(t *testing.T) {
		_, err := env.Post("/api/knowledge/add", map[string]interface{}{"category": "fire"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})
}

// TestE2E_SubscriptionLifecycle tests subscribe, unsubscribe, and reactivation
func TestE2E_SubscriptionLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("subscribe", func(t *testing.T) {
		resp, err := env.Post("/api/subscribe", map[string]string{
			"email":    "alerts@example.com",
			"location": "Portland",
		})
		require.NoError(t, err)

		var sub struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &sub))
		assert.Contains(t, sub.Message, "Successfully subscribed")
	})

	t.Run("duplicate subscribe conflicts", func(t *testing.T) {
		_, err := env.Post("/api/subscribe", map[string]string{"email": "alerts@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "409")
	})

	t.Run("unsubscribe", func(t *testing.T) {
		resp, err := env.Post("/api/unsubscribe", map[string]string{"email": "alerts@example.com"})
		require.NoError(t, err)

		var sub struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &sub))
		assert.Contains(t, sub.Message, "unsubscribed")
	})

	t.Run("resubscribe reactivates", func(t *testing.T) {
		resp, err := env.Post("/api/subscribe", map[string]string{"email": "alerts@example.com"})
		require.NoError(t, err)

		var sub struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &sub))
		assert.Contains(t, sub.Message, "Welcome back")
	})

	t.Run("list active subscriptions", func(t *testing.T) {
		resp, err := env.Get("/api/subscriptions")
		require.NoError(t, err)

		var list struct {
			Count         int `json:"count"`
			Subscriptions []struct {
				Email    string `json:"email"`
				Location string `json:"location"`
			} `json:"subscriptions"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		require.Equal(t, 1, list.Count)
		assert.Equal(t, "alerts@example.com", list.Subscriptions[0].Email)
		assert.Equal(t, "Portland", list.Subscriptions[0].Location)
	})
}

// TestE2E_Downloads tests the catalog and redirect to object storage
func TestE2E_Downloads(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	content := []byte("%PDF-1.4 e2e preparedness guide")
	require.NoError(t, env.UploadObject("pdfs/emergency-preparedness-guide.pdf", content, "application/pdf"))

	t.Run("catalog lists four resources", func(t *testing.T) {
		resp, err := env.Get("/api/downloads")
		require.NoError(t, err)

		var list struct {
			Downloads []struct {
				ID          string `json:"id"`
				DownloadURL string `json:"downloadUrl"`
			} `json:"downloads"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		require.Len(t, list.Downloads, 4)
		assert.Equal(t, "emergency-guide", list.Downloads[0].ID)
		assert.Equal(t, "/api/download/pdfs/emergency-preparedness-guide.pdf", list.Downloads[0].DownloadURL)
	})

	t.Run("download redirects to signed URL", func(t *testing.T) {
		noRedirect := &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		resp, err := noRedirect.Get(env.ServerURL + "/api/download/pdfs/emergency-preparedness-guide.pdf")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Location"))
	})

	t.Run("download fetches the object through the redirect", func(t *testing.T) {
		resp, err := env.HTTPClient.Get(env.ServerURL + "/api/download/pdfs/emergency-preparedness-guide.pdf")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, body)
	})

	t.Run("unknown resource returns 404", func(t *testing.T) {
		_, err := env.Get("/api/download/pdfs/not-a-real-file.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}
