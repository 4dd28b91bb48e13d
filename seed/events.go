package seed

import (
	"chargeflow/caseevent"
	"chargeflow/chargeback"
)

// eventsBuilder produces the evidentiary trail for one authored case.
// Dates are relative offsets from the dispute date so the trail always
// reads in causal order regardless of when the run happens.
type eventsBuilder func(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams

// buildEvents returns the case's trail: the authored builder when one
// exists, otherwise the category's generic sequence. Every case gets at
// least two entries.
func (s *Seeder) buildEvents(spec caseSpec, cb chargeback.Chargeback) []caseevent.AppendParams {
	if spec.events != nil {
		return spec.events(s, cb)
	}
	return s.genericEvents(spec, cb)
}

// genericEvents is the fallback trail: the filing contact plus a
// category-appropriate analysis entry.
func (s *Seeder) genericEvents(spec caseSpec, cb chargeback.Chargeback) []caseevent.AppendParams {
	opening := caseevent.AppendParams{
		Payload: caseevent.SupportTicket{
			TicketID:      "TKT-" + cb.ID,
			ContactMethod: "issuer",
			Statement:     "Cardholder disputes the charge.",
		},
		Description: "Dispute received from issuing bank.",
		Date:        cb.DisputeDate,
	}

	var analysis caseevent.AppendParams
	switch spec.category {
	case chargeback.CategoryTrueFraud:
		analysis = caseevent.AppendParams{
			Payload: caseevent.FraudIndicators{
				AVSMatch:     spec.txn.AVSCheck,
				CVVMatch:     spec.txn.CVVCheck,
				ThreeDSUsed:  spec.txn.ThreeDS,
				DeviceKnown:  false,
				IPReputation: "poor",
			},
			Description: "Verification checks failed; device and IP unknown to the account.",
			Date:        cb.DisputeDate.AddDate(0, 0, 1),
		}
	case chargeback.CategoryMerchantError:
		analysis = caseevent.AppendParams{
			Payload: caseevent.MerchantInvestigation{
				ErrorType: spec.disputeType,
				Confirmed: true,
			},
			Description: "Merchant investigation confirmed the processing error.",
			Date:        cb.DisputeDate.AddDate(0, 0, 2),
		}
	default:
		analysis = caseevent.AppendParams{
			Payload: caseevent.TransactionAnalysis{
				UnusualLocation: false,
				VelocityScore:   round2(benignScoreMin + s.rng.Float64()*(benignScoreMax-benignScoreMin)),
			},
			Description: "Transaction profile consistent with the cardholder's history.",
			Date:        cb.DisputeDate.AddDate(0, 0, 1),
		}
	}

	return []caseevent.AppendParams{opening, analysis}
}

// stolenCardEvents documents a stolen-card case: the report, the
// geo/velocity anomalies, and the failed verification stack.
func stolenCardEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "phone",
				Statement:     "My card was stolen last week. I did not make this purchase.",
				CardCancelled: true,
				PoliceReport:  "PR-2024-88431",
			},
			Description: "Cardholder reported card stolen and filed a police report.",
			Date:        d,
		},
		{
			Payload: caseevent.TransactionAnalysis{
				UnusualLocation:  true,
				LocationCountry:  "Romania",
				CustomerLocation: "California, US",
				DistanceMiles:    6200,
				MultipleCards24h: 4,
				VelocityScore:    92.5,
			},
			Description: "Transaction geolocated 6200 miles from the cardholder.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.FraudIndicators{
				AVSMatch:     "N",
				CVVMatch:     "N",
				ThreeDSUsed:  false,
				DeviceKnown:  false,
				IPReputation: "known_proxy",
			},
			Description: "All verification checks failed; IP is a known anonymizing proxy.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.VelocityCheck{
				CardsLast24h:         4,
				TransactionsLastWeek: 9,
				AmountLast24h:        3847.50,
				SameIPCount:          12,
				VelocityFlag:         true,
			},
			Description: "Twelve transactions from the same IP across four cards in 24 hours.",
			Date:        d.AddDate(0, 0, 2),
		},
	}
}

// accountTakeoverEvents documents a compromised-account case.
func accountTakeoverEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "email",
				Statement:     "I got a password reset email I never requested, then this charge appeared.",
			},
			Description: "Cardholder reports unrequested password reset before the charge.",
			Date:        d,
		},
		{
			Payload: caseevent.Login{
				Location:            "Kyiv, UA",
				IP:                  "91.108.56.203",
				Device:              "DEV_UNKNOWN_2210",
				DeviceKnown:         false,
				SameIPAsTransaction: true,
			},
			Description: "Login from unrecognized device; same IP later placed the order.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.PreviousDispute{
				TotalDisputes: 0,
				Standing:      "good",
			},
			Description: "No prior disputes on the account.",
			Date:        d.AddDate(0, 0, 2),
		},
	}
}

// itemNotReceivedEvents documents a friendly-fraud delivery dispute
// with the merchant's winning shipping evidence.
func itemNotReceivedEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	delivered := d.AddDate(0, 0, -8)
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "web",
				Statement:     "Package never arrived.",
			},
			Description: "Cardholder claims non-delivery.",
			Date:        d,
		},
		{
			Payload: caseevent.ShippingEvidence{
				TrackingNumber:  "1Z999AA10123456784",
				Carrier:         "UPS",
				DeliveredAt:     &delivered,
				DeliveryAddress: "billing address on file",
				SignatureName:   "J. Rodriguez",
				GPSCoordinates:  "29.7604,-95.3698",
			},
			Description: "Carrier records signed delivery at the billing address.",
			Date:        d.AddDate(0, 0, 2),
		},
		{
			Payload: caseevent.Login{
				Location:            "Houston, TX",
				DeviceKnown:         true,
				SameIPAsTransaction: true,
			},
			Description: "Account accessed from the usual device after the delivery date.",
			Date:        d.AddDate(0, 0, 3),
		},
		{
			Payload: caseevent.PreviousDispute{
				TotalDisputes:   3,
				SimilarDisputes: 3,
				Pattern:         "item_not_received",
				Standing:        "flagged",
			},
			Description: "Third identical dispute from this cardholder.",
			Date:        d.AddDate(0, 0, 4),
		},
	}
}

// subscriptionDisputeEvents documents a cancelled-recurring claim
// contradicted by usage logs.
func subscriptionDisputeEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "phone",
				Statement:     "I cancelled this subscription months ago.",
			},
			Description: "Cardholder claims prior cancellation.",
			Date:        d,
		},
		{
			Payload: caseevent.SubscriptionEvidence{
				SubscriptionID: "sub_99812",
				BillingCycle:   "monthly",
				TOSAgreement:   "accepted 2024-11-02",
				UsageWindow:    "14h viewing in billing period",
			},
			Description: "No cancellation on record; account streamed 14 hours during the disputed period.",
			Date:        d.AddDate(0, 0, 2),
		},
		{
			Payload: caseevent.Login{
				DeviceKnown:         true,
				SameIPAsTransaction: true,
			},
			Description: "Streaming sessions originated from the cardholder's usual device.",
			Date:        d.AddDate(0, 0, 2),
		},
	}
}

// duplicateChargeEvents documents a double-billing merchant error and
// its remediation.
func duplicateChargeEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "web",
				Statement:     "I was charged twice for the same order.",
			},
			Description: "Cardholder reports a duplicate charge.",
			Date:        d,
		},
		{
			Payload: caseevent.MerchantInvestigation{
				OrderNumber: "ORD-55120",
				ErrorType:   "duplicate_processing",
				RootCause:   "settlement batch submitted twice",
				Confirmed:   true,
			},
			Description: "Merchant confirmed the settlement batch ran twice.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.Refund{
				Offered:      true,
				Processed:    true,
				Amount:       cb.Amount,
				Status:       "completed",
				Confirmation: "REF-55120-2",
			},
			Description: "Duplicate posting refunded in full.",
			Date:        d.AddDate(0, 0, 3),
		},
		{
			Payload: caseevent.SystemFix{
				Resolved:    true,
				Description: "Added idempotency key to settlement submission.",
				Prevention:  "duplicate batch detection in nightly reconciliation",
			},
			Description: "Settlement pipeline patched against duplicate submission.",
			Date:        d.AddDate(0, 0, 6),
		},
	}
}

// wrongItemEvents documents a fulfillment mistake the merchant accepted.
func wrongItemEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "email",
				Statement:     "I ordered a blue jacket and received a different product entirely.",
			},
			Description: "Cardholder received the wrong item.",
			Date:        d,
		},
		{
			Payload: caseevent.MerchantInvestigation{
				OrderNumber: "ORD-48832",
				ErrorType:   "fulfillment_error",
				RootCause:   "warehouse picking error, adjacent bin",
				Confirmed:   true,
			},
			Description: "Warehouse audit confirmed the picking error.",
			Date:        d.AddDate(0, 0, 2),
		},
		{
			Payload: caseevent.Refund{
				Offered:   true,
				Processed: false,
				Amount:    cb.Amount,
				Status:    "superseded_by_chargeback",
			},
			Description: "Refund offered but the chargeback posted first; case accepted.",
			Date:        d.AddDate(0, 0, 4),
		},
	}
}

// unrecognizedDescriptorEvents documents a legitimate charge disputed
// because the billing descriptor was unfamiliar.
func unrecognizedDescriptorEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "phone",
				Statement:     "I don't recognize this charge on my statement.",
			},
			Description: "Cardholder does not recognize the billing descriptor.",
			Date:        d,
		},
		{
			Payload: caseevent.SubscriptionEvidence{
				SubscriptionID: "sub_44107",
				BillingCycle:   "monthly",
				UsageWindow:    "active viewing during billing period",
			},
			Description: "Charge is the cardholder's own subscription renewal, in active use.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.Login{
				DeviceKnown:         true,
				SameIPAsTransaction: true,
			},
			Description: "Renewal initiated from the cardholder's registered device.",
			Date:        d.AddDate(0, 0, 1),
		},
	}
}

// familyPurchaseEvents documents a fraud claim that resolved as a
// household purchase.
func familyPurchaseEvents(s *Seeder, cb chargeback.Chargeback) []caseevent.AppendParams {
	d := cb.DisputeDate
	return []caseevent.AppendParams{
		{
			Payload: caseevent.SupportTicket{
				TicketID:      "TKT-" + cb.ID,
				ContactMethod: "web",
				Statement:     "I did not make this purchase.",
			},
			Description: "Cardholder disputes the charge as unauthorized.",
			Date:        d,
		},
		{
			Payload: caseevent.FraudIndicators{
				AVSMatch:    "Y",
				CVVMatch:    "Y",
				ThreeDSUsed: true,
				DeviceKnown: true,
			},
			Description: "Every verification passed from a device registered to the household.",
			Date:        d.AddDate(0, 0, 1),
		},
		{
			Payload: caseevent.ShippingEvidence{
				TrackingNumber:  "9400110200881234567890",
				Carrier:         "USPS",
				DeliveryAddress: "billing address on file",
			},
			Description: "Order shipped to the cardholder's own address.",
			Date:        d.AddDate(0, 0, 2),
		},
		{
			Payload: caseevent.Opaque{
				Type: "dispute_withdrawal",
				Fields: map[string]any{
					"withdrawn_by": "cardholder",
					"reason":       "purchase made by family member",
				},
			},
			Description: "Cardholder withdrew the dispute after reviewing the evidence.",
			Date:        d.AddDate(0, 0, 5),
		},
	}
}
