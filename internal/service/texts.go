package service

import (
	"fmt"
	"strings"

	"townguide/internal/router"
)

// TechnicalErrorText is the only message a visitor sees when a turn fails.
const TechnicalErrorText = "Elnézést, technikai hiba történt. Kérlek, próbáld újra egy perc múlva!"

// staticReplies never go to the text generator; their wording is fixed.
var staticReplies = map[router.ReplyType]bool{
	router.ReplyEmergency:            true,
	router.ReplyAskPlate:             true,
	router.ReplyParkingCancelled:     true,
	router.ReplyContinueCurrentFlow:  true,
	router.ReplyParkingOfferDeclined: true,
}

var fallbackTexts = map[router.ReplyType]string{
	router.ReplyEmergency:            "Azonnal hívd a 112-es segélyhívó számot! Ha tudod, mondd meg, hol vagy és mi történt.",
	router.ReplyAskArrivalTime:       "Szívesen segítek! Mikorra értek Kőszegre?",
	router.ReplyContinueCurrentFlow:  "Előbb fejezzük be, amit elkezdtünk, utána szívesen segítek ebben is.",
	router.ReplyParkingInfoNotInCity: "Ha megérkeztetek, szólj, és segítek a parkolásban. Mikorra értek ide?",
	router.ReplyParkingOfferWife:     "Ha a párod már bent van, el is indíthatom neki a parkolást. Indítsam?",
	router.ReplyParkingOfferUser:     "El is indíthatom neked a parkolást. Indítsam?",
	router.ReplyParkingInfo:          "A belváros fizetős övezet, a Várkörön kívül ingyenes parkolók is vannak.",
	router.ReplyParkingOfferDeclined: "Rendben, nem indítom el. Ha mégis kell, csak szólj!",
	router.ReplyAskPlate:             "Mi az autó rendszáma?",
	router.ReplyAskDuration:          "Hány órára indítsam a parkolást?",
	router.ReplyConfirmParking:       "Indíthatom a parkolást?",
	router.ReplyAskSaveConsent:       "Elmentsem a rendszámot a következő alkalomra?",
	router.ReplyParkingCancelled:     "Rendben, a parkolást nem indítom el.",
	router.ReplyParkingSuccess:       "Megnyitom a parkolójegy vásárlását.",

	router.ReplyArrivalTimeReceived:     "Köszönöm, feljegyeztem az érkezést.",
	router.ReplyArrivalTimeAcknowledged: "Rendben! Ha odaértek, írj bátran.",

	router.ReplyRainyDay:      "Esős időben ezeket ajánlom:",
	router.ReplyFamilies:      "Gyerekekkel ezeket ajánlom:",
	router.ReplyTours:         "Sétához és túrához ezeket ajánlom:",
	router.ReplyShopping:      "Vásárláshoz:",
	router.ReplyPractical:     "Hasznos tudnivalók:",
	router.ReplyAccessibility: "Akadálymentesség:",
	router.ReplyItinerary:     "Egy kis program mára:",
	router.ReplyFoodSearch:    "Ezeket a helyeket ajánlom:",
	router.ReplyAttractions:   "Ezeket érdemes megnézni:",
	router.ReplyEvents:        "Ezek a programok várnak:",
	router.ReplyHotels:        "Szállásnak ezeket ajánlom:",
	router.ReplyOfferNav:      "Megnyitom a navigációt.",
	router.ReplyAskDest:       "Hová szeretnél eljutni?",
	router.ReplyGreeting:      "Szia! Kőszegi idegenvezető asszisztensed vagyok. Miben segíthetek?",
	router.ReplyNormal:        "Ebben sajnos nem tudok biztosat mondani.",
}

// fallbackText is a complete answer built only from facts, used whenever
// the text generator is skipped or unavailable.
func fallbackText(reply router.ReplyType, f Facts) string {
	base, ok := fallbackTexts[reply]
	if !ok {
		base = fallbackTexts[router.ReplyNormal]
	}

	var b strings.Builder
	b.WriteString(base)

	switch {
	case len(f.Places) > 0:
		b.WriteString(" " + placeNames(f.Places) + ".")
	case len(f.Practical) > 0 && reply != router.ReplyParkingOfferUser && reply != router.ReplyParkingOfferWife:
		for _, p := range f.Practical {
			b.WriteString(" " + p.Text)
		}
	}

	if p := f.Parking; p != nil && (reply == router.ReplyConfirmParking || reply == router.ReplyParkingSuccess) {
		if p.Plate != "" && p.Hours > 0 {
			b.WriteString(fmt.Sprintf(" %s, %d óra", p.Plate, p.Hours))
			if p.Quote != nil {
				b.WriteString(fmt.Sprintf(", %s", p.Quote.Total))
			}
			b.WriteString(".")
		}
	}
	if f.Destination != nil && f.Travel != nil {
		b.WriteString(fmt.Sprintf(" %s kb. %d perc.", f.Destination.Name, f.Travel.Minutes()))
	}
	if fc := f.Forecast; fc != nil {
		b.WriteString(fmt.Sprintf(" Érkezéskor %s várható, %.0f °C.", fc.Description, fc.TempC))
	}
	if len(f.Search) > 0 {
		names := make([]string, len(f.Search))
		for i, s := range f.Search {
			names[i] = s.Name
		}
		b.WriteString(" Ezt találtam: " + strings.Join(names, ", ") + ".")
	}
	return b.String()
}

// buildPrompt gives the generator the reply type, the message and the facts.
func buildPrompt(reply router.ReplyType, query string, f Facts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Válasz típusa: %s\n", reply)
	fmt.Fprintf(&b, "A látogató üzenete: %q\n", query)
	b.WriteString("TÉNYEK:\n")
	for _, l := range f.Lines() {
		b.WriteString("- " + l + "\n")
	}
	b.WriteString(replyGuidance(reply))
	return b.String()
}

func replyGuidance(reply router.ReplyType) string {
	switch reply {
	case router.ReplyAskArrivalTime, router.ReplyParkingInfoNotInCity:
		return "Kérdezd meg, mikorra érkeznek."
	case router.ReplyParkingOfferUser, router.ReplyParkingOfferWife:
		return "Röviden foglald össze a parkolást, és kérdezd meg, elindítsd-e."
	case router.ReplyAskDuration:
		return "Kérdezd meg, hány órára indítsd a parkolást."
	case router.ReplyConfirmParking:
		return "Ismételd meg a rendszámot, az időtartamot és a díjat, és kérj megerősítést."
	case router.ReplyAskSaveConsent:
		return "Kérdezd meg, elmentheted-e a rendszámot a következő alkalomra."
	case router.ReplyParkingSuccess:
		return "Jelezd, hogy megnyílik a parkolójegy vásárlása."
	case router.ReplyArrivalTimeReceived:
		return "Nyugtázd az érkezési időt; ha van előrejelzés, említsd meg."
	case router.ReplyOfferNav:
		return "Ajánld fel a navigációt az úti célhoz."
	case router.ReplyAskDest:
		return "Kérdezd meg, hová szeretne eljutni."
	case router.ReplyGreeting:
		return "Köszönj vissza kedvesen, és kérdezd meg, miben segíthetsz."
	case router.ReplyNormal:
		return "Ha a tények nem adnak választ, mondd meg őszintén."
	}
	return "Mutasd be röviden az ajánlatokat a megadott sorrendben."
}
