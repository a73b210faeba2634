package support

import (
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	logger   = logging.GetLogger()
	validate = validator.New()
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Mobile  string `json:"mobile" validate:"required,min=10,max=15"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required,max=1000"`
}

type EnquiryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Mobile    string `json:"mobile" validate:"required,min=10,max=15"`
	Email     string `json:"email" validate:"omitempty,email"`
	Message   string `json:"message" validate:"required,max=1000"`
	ProductID *uint  `json:"productId"`
}

// POST /api/contact-us
func ContactUsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ContactRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg := models.ContactMessage{
			Name:    body.Name,
			Mobile:  body.Mobile,
			Email:   body.Email,
			Message: body.Message,
		}
		if err := database.DB.Create(&msg).Error; err != nil {
			logging.LogError(logger, "support", "ContactUsHandler", "create message", fiber.Map{"mobile": body.Mobile}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Message could not be saved")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Thanks for reaching out. We will get back to you."})
	}
}

// POST /api/enquiries
func CreateEnquiryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EnquiryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if body.ProductID != nil {
			var count int64
			database.DB.Model(&models.Product{}).
				Where("id = ? AND is_active = ?", *body.ProductID, true).
				Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Product does not exist")
			}
		}

		enquiry := models.Enquiry{
			Name:      body.Name,
			Mobile:    body.Mobile,
			Email:     body.Email,
			Message:   body.Message,
			ProductID: body.ProductID,
		}
		if err := database.DB.Create(&enquiry).Error; err != nil {
			logging.LogError(logger, "support", "CreateEnquiryHandler", "create enquiry", fiber.Map{"mobile": body.Mobile}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Enquiry could not be saved")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Enquiry received."})
	}
}

// GET /api/admin/contact-messages
func ListContactMessagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)
		dbq := database.DB.Model(&models.ContactMessage{})

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Messages could not be counted")
		}

		var messages []models.ContactMessage
		if err := dbq.Order("created_at DESC").
			Offset(params.Offset()).Limit(params.Limit).
			Find(&messages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Messages could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": messages,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}

// GET /api/admin/enquiries
func ListEnquiriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)
		dbq := database.DB.Model(&models.Enquiry{})

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Enquiries could not be counted")
		}

		var enquiries []models.Enquiry
		if err := dbq.Preload("Product").Order("created_at DESC").
			Offset(params.Offset()).Limit(params.Limit).
			Find(&enquiries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Enquiries could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": enquiries,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}
