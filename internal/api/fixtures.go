package api

import (
	"time"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

func fixtureEmails() []models.EmailMessage {
	return []models.EmailMessage{
		{
			ID:      "e1",
			Subject: "Question about my recent order #12345",
			Sender: models.Sender{
				Name:  "John Smith",
				Email: "john.smith@example.com",
			},
			ReceivedAt: time.Date(2025, time.May, 16, 14, 30, 0, 0, time.UTC),
			Body:       "Hello,\n\nI ordered a product last week (Order #12345) and I haven't received any shipping update yet. Could you please check the status of my order?\n\nThanks,\nJohn",
			Preview:    "I ordered a product last week (Order #12345) and I haven't received any shipping update yet...",
		},
		{
			ID:      "e2",
			Subject: "Return request for damaged item",
			Sender: models.Sender{
				Name:  "Mary Johnson",
				Email: "mary.j@example.com",
			},
			ReceivedAt: time.Date(2025, time.May, 16, 10, 15, 0, 0, time.UTC),
			Body:       "Hi there,\n\nI received my order yesterday but unfortunately the product was damaged during shipping. I'd like to request a return and replacement. My order number is #54321.\n\nBest regards,\nMary",
			Preview:    "I received my order yesterday but unfortunately the product was damaged during shipping...",
		},
		{
			ID:      "e3",
			Subject: "Product availability question",
			Sender: models.Sender{
				Name:  "David Williams",
				Email: "david.w@example.com",
			},
			ReceivedAt: time.Date(2025, time.May, 15, 18, 45, 0, 0, time.UTC),
			Body:       "Hello,\n\nI'm interested in purchasing the XYZ product that's currently listed as out of stock on your website. Do you know when it will be available again?\n\nThanks,\nDavid",
			Preview:    "I'm interested in purchasing the XYZ product that's currently listed as out of stock on your website...",
		},
		{
			ID:      "e4",
			Subject: "Discount code not working",
			Sender: models.Sender{
				Name:  "Sarah Brown",
				Email: "sarah.b@example.com",
			},
			ReceivedAt: time.Date(2025, time.May, 15, 9, 20, 0, 0, time.UTC),
			Body:       "Hi,\n\nI'm trying to use the SPRING25 discount code that I received in your newsletter, but it keeps saying it's invalid. Is this code still active?\n\nRegards,\nSarah",
			Preview:    "I'm trying to use the SPRING25 discount code that I received in your newsletter, but it keeps saying it's invalid...",
		},
		{
			ID:      "e5",
			Subject: "Wrong item received",
			Sender: models.Sender{
				Name:  "Michael Lee",
				Email: "michael.l@example.com",
			},
			ReceivedAt: time.Date(2025, time.May, 14, 16, 10, 0, 0, time.UTC),
			Body:       "Hello Support Team,\n\nI ordered a blue medium-sized t-shirt but received a red small one instead. Order #67890. How can we resolve this?\n\nThanks,\nMichael",
			Preview:    "I ordered a blue medium-sized t-shirt but received a red small one instead. Order #67890...",
		},
	}
}
