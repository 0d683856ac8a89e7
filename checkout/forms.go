package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

type DeliveryMethod string

const (
	DeliveryUnset DeliveryMethod = ""
	DeliveryHome  DeliveryMethod = "HOME"
	DeliveryStore DeliveryMethod = "STORE"
)

// WireValue is the deliveryMethod sent to the order endpoint.
func (d DeliveryMethod) WireValue() string {
	switch d {
	case DeliveryHome:
		return models.DeliveryHome
	case DeliveryStore:
		return models.DeliveryStore
	default:
		return ""
	}
}

func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "homedelivery":
		return DeliveryHome, nil
	case "store", "storepickup", "pickup":
		return DeliveryStore, nil
	default:
		return DeliveryUnset, apperrors.Validation("deliveryMethod", "Choose home delivery or store pickup")
	}
}

type PaymentMethod string

const (
	PaymentUnset  PaymentMethod = ""
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

// WireValue is the paymentMethod sent to the order endpoint.
func (p PaymentMethod) WireValue() string {
	switch p {
	case PaymentCOD:
		return models.PaymentCOD
	case PaymentOnline:
		return models.PaymentPrepaid
	default:
		return ""
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cod", "cash", "cashondelivery":
		return PaymentCOD, nil
	case "online", "prepaid", "card":
		return PaymentOnline, nil
	default:
		return PaymentUnset, apperrors.Validation("paymentMethod", "Choose cash on delivery or online payment")
	}
}

// Address holds the typed shipping fields. Store pickup only needs Phone.
type Address struct {
	Phone      string `json:"phone" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (a Address) trimmed() Address {
	return Address{
		Phone:      strings.TrimSpace(a.Phone),
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// Card fields are collected for the online form but never sent anywhere.
type Card struct {
	CardHolder string `json:"cardHolder" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

func (c Card) trimmed() Card {
	return Card{
		CardHolder: strings.TrimSpace(c.CardHolder),
		CardNumber: strings.TrimSpace(c.CardNumber),
		Expiry:     strings.TrimSpace(c.Expiry),
		CVV:        strings.TrimSpace(c.CVV),
	}
}

// Form is a filled-in payment form.
type Form interface {
	Method() PaymentMethod
	ShippingFields() Address
	Validate(delivery DeliveryMethod) error
}

type CODForm struct {
	Address
}

func (CODForm) Method() PaymentMethod { return PaymentCOD }

func (f CODForm) ShippingFields() Address { return f.Address.trimmed() }

func (f CODForm) Validate(delivery DeliveryMethod) error {
	return validateAddress(f.Address.trimmed(), delivery)
}

type OnlineForm struct {
	Address
	Card
}

func (OnlineForm) Method() PaymentMethod { return PaymentOnline }

func (f OnlineForm) ShippingFields() Address { return f.Address.trimmed() }

func (f OnlineForm) Validate(delivery DeliveryMethod) error {
	if err := validateAddress(f.Address.trimmed(), delivery); err != nil {
		return err
	}
	return toValidationError(formValidator.Struct(f.Card.trimmed()))
}

var formValidator = newFormValidator()

// newFormValidator reports fields by their JSON names.
func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldLabels = map[string]string{
	"phone":      "Phone number",
	"street":     "Street address",
	"city":       "City",
	"state":      "State",
	"postalCode": "Postal code",
	"country":    "Country",
	"cardHolder": "Card holder name",
	"cardNumber": "Card number",
	"expiry":     "Expiry date",
	"cvv":        "CVV",
}

func validateAddress(a Address, delivery DeliveryMethod) error {
	if delivery == DeliveryStore {
		return toValidationError(formValidator.StructPartial(a, "Phone"))
	}
	return toValidationError(formValidator.Struct(a))
}

// toValidationError reports the first failing field.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("", "Please check the form and try again")
	}
	field := verrs[0].Field()
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	return apperrors.Validation(field, fmt.Sprintf("%s is required", label))
}
