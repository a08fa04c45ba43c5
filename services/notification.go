package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"settleup-backend/config"
	"settleup-backend/database"
	"settleup-backend/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// NotificationService fans settlement events out to push and email. Either
// channel may be nil, in which case it is skipped.
type NotificationService struct {
	push  *messaging.Client
	email *sendgrid.Client
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}
	}
	return notifService
}

// InitNotificationService wires FCM and SendGrid from config.
func InitNotificationService(ctx context.Context) {
	ns := &NotificationService{}

	if path := config.AppConfig.FirebaseCredPath; path != "" {
		if _, err := os.Stat(path); err != nil {
			log.Printf("⚠️  Firebase credentials not found at %s, push disabled", path)
		} else if client, err := newMessagingClient(ctx, path); err != nil {
			log.Printf("⚠️  Firebase init failed, push disabled: %v", err)
		} else {
			ns.push = client
			log.Println("✅ Firebase messaging ready")
		}
	}

	if config.AppConfig.SendGridAPIKey != "" {
		ns.email = sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
		log.Println("✅ SendGrid ready")
	} else {
		log.Println("⚠️  SendGrid API key not set, email disabled")
	}

	notifService = ns
}

func newMessagingClient(ctx context.Context, credPath string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	return app.Messaging(ctx)
}

// ============================================================
// PUSH NOTIFICATIONS via FCM
// ============================================================

func (ns *NotificationService) sendPush(ctx context.Context, fcmToken, title, body string, data map[string]string) {
	if ns.push == nil || fcmToken == "" {
		return
	}

	_, err := ns.push.Send(ctx, &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

// ============================================================
// EMAIL NOTIFICATIONS via SendGrid
// ============================================================

func (ns *NotificationService) sendEmail(toEmail, toName, subject, htmlBody string) {
	if ns.email == nil || toEmail == "" {
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, subject, htmlBody)

	resp, err := ns.email.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// findUser resolves a participant username to a registered account.
func findUser(username string) (*models.User, bool) {
	if username == "" || database.DB == nil {
		return nil, false
	}
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func usernameAt(expense models.Expense, index int) string {
	if index < 0 || index >= len(expense.Participants) {
		return ""
	}
	return expense.Participants[index].Username
}

// NotifySettlementsConfirmed tells every registered debtor what they owe and to whom.
func (ns *NotificationService) NotifySettlementsConfirmed(ctx context.Context, expense models.Expense, rows []models.Settlement, by models.User) {
	for _, row := range rows {
		user, ok := findUser(usernameAt(expense, row.FromIndex))
		if !ok || user.ID == by.ID {
			continue
		}

		title := fmt.Sprintf("%s settled up \"%s\"", by.Name, expense.Title)
		body := fmt.Sprintf("You owe %s %s %.2f", row.ToName, row.Currency, row.Amount)

		ns.sendPush(ctx, user.FCMToken, title, body, map[string]string{
			"type":          models.ActivitySettlementConfirmed,
			"expense_id":    expense.ID.String(),
			"settlement_id": row.ID.String(),
		})

		htmlBody := buildSettlementRequestEmailHTML(user.Name, by.Name, row.ToName, expense.Title, row.Currency, row.Amount)
		ns.sendEmail(user.Email, user.Name, fmt.Sprintf("You owe %s for \"%s\"", row.ToName, expense.Title), htmlBody)
	}
}

// NotifySettlementPaid tells the receiver that a transfer was marked paid.
func (ns *NotificationService) NotifySettlementPaid(ctx context.Context, expense models.Expense, row models.Settlement, by models.User) {
	user, ok := findUser(usernameAt(expense, row.ToIndex))
	if !ok || user.ID == by.ID {
		return
	}

	title := fmt.Sprintf("%s paid you", row.FromName)
	body := fmt.Sprintf("%s paid you %s %.2f for \"%s\"", row.FromName, row.Currency, row.Amount, expense.Title)

	ns.sendPush(ctx, user.FCMToken, title, body, map[string]string{
		"type":          models.ActivitySettlementPaid,
		"expense_id":    expense.ID.String(),
		"settlement_id": row.ID.String(),
	})

	htmlBody := buildSettlementPaidEmailHTML(row.FromName, user.Name, expense.Title, row.Currency, row.Amount)
	ns.sendEmail(user.Email, user.Name, fmt.Sprintf("%s settled up with you", row.FromName), htmlBody)
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

var settlementRequestTmpl = template.Must(template.New("request").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">💸 Time to settle up</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p><strong>{{.ByName}}</strong> worked out the payments for <strong>{{.Title}}</strong>:</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; color: #e53e3e; font-size: 18px;"><strong>Pay {{.ToName}} {{.Currency}} {{printf "%.2f" .Amount}}</strong></p>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">{{.AppName}}</p>
	</div>
</body>
</html>`))

var settlementPaidTmpl = template.Must(template.New("paid").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">✅ Payment Recorded</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p><strong>{{.FromName}}</strong> paid you <strong>{{.Currency}} {{printf "%.2f" .Amount}}</strong> for <strong>{{.Title}}</strong>.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">{{.AppName}}</p>
	</div>
</body>
</html>`))

func renderEmail(t *template.Template, data map[string]interface{}) string {
	data["AppName"] = config.AppConfig.AppName
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Printf("❌ Email template %s: %v", t.Name(), err)
		return ""
	}
	return buf.String()
}

func buildSettlementRequestEmailHTML(userName, byName, toName, title, currency string, amount float64) string {
	return renderEmail(settlementRequestTmpl, map[string]interface{}{
		"UserName": userName,
		"ByName":   byName,
		"ToName":   toName,
		"Title":    title,
		"Currency": currency,
		"Amount":   amount,
	})
}

func buildSettlementPaidEmailHTML(fromName, userName, title, currency string, amount float64) string {
	return renderEmail(settlementPaidTmpl, map[string]interface{}{
		"FromName": fromName,
		"UserName": userName,
		"Title":    title,
		"Currency": currency,
		"Amount":   amount,
	})
}
