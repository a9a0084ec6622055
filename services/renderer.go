package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tlbc-notify-backend/models"
)

// specialTitles maps full member names to their honorific. Anyone not
// listed falls back to a gender-derived default.
var specialTitles = map[string]string{
	"Olisaeloka Okeke":       "Pastor",
	"Mmesoma Okafor":         "Pastor",
	"Ikechukwu Egwu":         "Pastor",
	"Chinelo Okeke":          "Pastor",
	"Ugochukwu Obiozor":      "Pastor",
	"Ujukaego Udegbunam":     "Pastor",
	"Kenechukwu Chukwukelue": "Pastor",
	"Chizoba Okeke":          "Pastor",
	"Divine Nwolisa":         "Pastor",
	"Chidinma Egwu":          "Evangelist",
	"Chidinma Udegbunam":     "Evangelist",
	"Precious Mbanekwu":      "Pastor",
	"Faith Bidiki":           "Pastor",
	"Elochukwu Udegbunam":    "Reverend",
	"Peculiar Chukwudi":      "Esteemed Member",
}

// clergyTitles get the formal subject line and greeting.
var clergyTitles = map[string]bool{
	"Pastor":     true,
	"Reverend":   true,
	"Evangelist": true,
}

// Renderer builds personalized messages from recipient records. It does
// no I/O at render time; card images are probed once at construction.
type Renderer struct {
	titles       map[string]string
	birthdayCard string // empty when the asset is missing
	easterCard   string
}

func NewRenderer(assetsDir string) *Renderer {
	r := &Renderer{titles: specialTitles}
	r.birthdayCard = probeAsset(filepath.Join(assetsDir, "MOG_Bday.jpg"))
	r.easterCard = probeAsset(filepath.Join(assetsDir, "EasterCard.jpg"))
	return r
}

func probeAsset(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// ResolveTitle returns the honorific for a recipient: an exact full-name
// match in the titles table wins, otherwise the gender default.
func (rd *Renderer) ResolveTitle(r models.Recipient) string {
	if t, ok := rd.titles[r.FullName()]; ok {
		return t
	}
	switch r.Gender {
	case "Male":
		return "Bro."
	case "Female":
		return "Sis."
	}
	return ""
}

// DisplayName builds the greeting name. With a title it is
// "title firstName"; without one it is the first name, and when even
// that is missing, the local part of the email address.
func (rd *Renderer) DisplayName(r models.Recipient, title string) string {
	first := strings.TrimSpace(r.FirstName)
	if title != "" && first != "" {
		return title + " " + first
	}
	if first != "" {
		return first
	}
	return strings.SplitN(r.Email, "@", 2)[0]
}

// RenderBirthdayEmail builds the birthday message for one recipient.
func (rd *Renderer) RenderBirthdayEmail(r models.Recipient) models.RenderedMessage {
	title := rd.ResolveTitle(r)
	name := rd.DisplayName(r, title)

	subject := "Happy Birthday! 🎂"
	greeting := "dear"
	if clergyTitles[title] {
		subject = fmt.Sprintf("Happy Birthday, %s! 🎂", title)
		greeting = "Reverend"
	}

	var card string
	var attachment *models.Attachment
	if rd.birthdayCard != "" {
		attachment = &models.Attachment{
			Path:     rd.birthdayCard,
			Filename: "Happy Birthday Reverend.jpg",
			CID:      "birthdaycard",
		}
		card = `<div style="text-align: center;"><img src="cid:birthdaycard" alt="Birthday Card" style="width: 100%; max-width: 700px; border-radius: 8px; height: auto; display: block; margin: 0 auto;" /></div>`
	}

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 10px;">
  <h1 style="color: #4a4a4a; text-align: center;">Happy Birthday, %s %s! 🎉</h1>
  %s
  <p style="font-size: 16px; line-height: 1.5; color: #666; margin-top: 20px;">
    What a time to celebrate the gift of God over us, a Pastor after God's own heart.
  </p>
  <p style="font-size: 16px; line-height: 1.5; color: #666;">
    Not a day goes by that we do not thank God for allowing us to meet you. Your presence is truly a blessing,
    and we cannot trade it for anything. Your faith and commitment to the Lord's work inspire us all and may God
    continue to strengthen you in the same.
  </p>
  <p style="font-size: 16px; line-height: 1.5; color: #666;">
    Pastor, your words and actions have changed the lives of so many and had them established in God's plan for their lives.
    We could not have experienced this journey of spiritual growth without you, Sir.
  </p>
  <p style="font-size: 16px; line-height: 1.5; color: #666;">
    On this day and always, we pray that you are kept for our joy and furtherance of faith.
  </p>
  <div style="text-align: center; margin-top: 30px; padding: 15px; background-color: #f9f9f9; border-radius: 8px;">
    <p style="font-size: 14px; color: #888; margin: 0;">Happy birthday, dear Reverend Most Holy!</p>
    <p style="font-size: 14px; color: #888; margin: 0;">We love you, dear %s!</p>
  </div>
</div>`, greeting, name, card, name)

	text := fmt.Sprintf(`Happy Birthday, %s %s!

What a time to celebrate the gift of God over us, a Pastor after God's own heart.

Not a day goes by that we do not thank God for allowing us to meet you. Your presence is truly a blessing, and we cannot trade it for anything. Your faith and commitment to the Lord's work inspire us all and may God continue to strengthen you in the same.

Pastor, your words and actions have changed the lives of so many and had them established in God's plan for their lives. We could not have experienced this journey of spiritual growth without you, Sir.

On this day and always, we pray that you are kept for our joy and furtherance of faith.

Happy birthday, dear Reverend Most Holy. We love you, dear %s!

- The Lord's Brethren Church International`, greeting, name, name)

	return models.RenderedMessage{
		Subject:    subject,
		HTML:       html,
		Text:       text,
		Attachment: attachment,
	}
}

// RenderEasterEmail builds the Easter broadcast message.
func (rd *Renderer) RenderEasterEmail(r models.Recipient) models.RenderedMessage {
	title := rd.ResolveTitle(r)
	name := rd.DisplayName(r, title)

	var card string
	var attachment *models.Attachment
	if rd.easterCard != "" {
		attachment = &models.Attachment{
			Path:     rd.easterCard,
			Filename: "Happy Easter.jpg",
			CID:      "eastercard",
		}
		card = `<div style="text-align: center;"><img src="cid:eastercard" alt="Easter Card" style="width: 100%; max-width: 700px; border-radius: 8px; height: auto; display: block; margin: 0 auto;" /></div>`
	}

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 10px;">
  <h1 style="color: #4a4a4a; text-align: center;">Happy Easter, %s! 🎉</h1>
  %s
  <p style="font-size: 16px; line-height: 1.5; color: #666; margin-top: 20px; text-align: justify;">
    The word Easter has become a popular word all over the world, even though it was originally a celebration of the Jews.
  </p>
  <p style="font-size: 16px; line-height: 1.5; color: #666; text-align: justify;">
    The reason it is now so widely recognized is because it represents victory for us. Jesus, the Son of God, on a particular Easter, rose triumphantly
    from the dead. That resurrection was victory over death, which came as a result of sin. Now, anyone who places faith in Christ comes into that victory.
    He receives the Spirit, by which he can serve the purpose of God here, and by the same Spirit, he receives a guarantee of immortality.
  </p>
  <p style="font-size: 16px; line-height: 1.5; color: #666; text-align: justify;">
    Easter is no longer just a celebration of the paschal feast, the Feast of the Passover, but the fulfillment of the promise of God.
    Christ, our Passover, has been crucified, died, and rose again triumphantly on the third day.
    Today, we are living for what He died for. He died to give man His life.
    That life is what we announce in our ministry today, and will continue to announce, until the perfect day.
  </p>
  <div style="text-align: center; margin-top: 30px; padding: 15px; background-color: #f9f9f9; border-radius: 8px;">
    <p style="font-size: 14px; color: #888; margin: 0;">Happy Easter from all of us at The Lord's Brethren Church International.</p>
  </div>
  <p style="font-size: 16px; font-weight: bold; text-align: center; margin-top: 10px; color: #4a4a4a;">
    Reverend Elochukwu Udegbunam
  </p>
</div>`, name, card)

	text := fmt.Sprintf(`Happy Easter, %s!

The word Easter has become a popular word all over the world, even though it was originally a celebration of the Jews.

The reason it is now so widely recognized is because it represents victory for us. Jesus, the Son of God, on a particular Easter, rose triumphantly from the dead. That resurrection was victory over death, which came as a result of sin. Now, anyone who places faith in Christ comes into that victory.

Happy Easter from all of us at The Lord's Brethren Church International.

Reverend Elochukwu Udegbunam`, name)

	return models.RenderedMessage{
		Subject:    "Happy Easter! 🎉",
		HTML:       html,
		Text:       text,
		Attachment: attachment,
	}
}

// RenderBirthdaySMS builds the short birthday text message.
func (rd *Renderer) RenderBirthdaySMS(r models.Recipient) models.RenderedMessage {
	name := r.FullName()
	if name == "" {
		name = rd.DisplayName(r, "")
	}
	return models.RenderedMessage{
		Text: fmt.Sprintf("Happy Birthday %s! 🎂 Wishing you a fantastic day filled with joy and celebration. Best wishes from TLBC.", name),
	}
}
