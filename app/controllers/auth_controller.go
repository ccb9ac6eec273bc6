package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/database"
	"github.com/criadoresdevideo/videoclub/internal/pkg/env"
	"github.com/criadoresdevideo/videoclub/internal/pkg/hcaptcha"
	"github.com/criadoresdevideo/videoclub/internal/pkg/mail"
	"github.com/criadoresdevideo/videoclub/internal/pkg/session"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Render("auth/login", fiber.Map{
			"Title": "Entrar",
			"Flash": flash.Get(c),
			"csrf":  csrfToken(c),
		})
	}

	fm := fiber.Map{
		"type": "error",
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	var user models.User
	result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
	if result.Error != nil {
		fm["message"] = "There is a problem with the login process"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
		fm["message"] = "There is a problem with the login process"

		return flash.WithError(c, fm).Redirect("/login")
	}

	// Profile enrichment after login: keep the session flag aligned with
	// payment history before it is cached in the session.
	if err := paymentService.ReconcileProfile(&user); err != nil {
		fmt.Printf("subscriber reconciliation on login failed: %v\n", err)
	}

	if err := createLoginSession(c, &user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	database.GetDB().Model(&user).Update("last_login_at", time.Now())

	fm = fiber.Map{
		"type":    "success",
		"message": "Bem-vindo de volta!",
	}

	return flash.WithSuccess(c, fm).Redirect("/")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Até logo!",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Render("auth/register", fiber.Map{
			"Title":           "Cadastrar",
			"HCaptchaSiteKey": env.GetEnv("HCAPTCHA_SITE_KEY", ""),
			"Flash":           flash.Get(c),
			"csrf":            csrfToken(c),
		})
	}

	if env.GetEnv("HCAPTCHA_ENABLED", "false") == "true" {
		ok, err := hcaptcha.Verify(c.FormValue("h-captcha-response"))
		if err != nil || !ok {
			fm := fiber.Map{
				"type":    "error",
				"message": "Verificação de captcha falhou",
			}

			return flash.WithError(c, fm).Redirect("/register")
		}
	}

	user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}

		return flash.WithError(c, fm).Redirect("/register")
	}

	// Sign-up-time reconciliation: a payment row may have arrived before the
	// profile existed. The profile is created already carrying the flag.
	hasPayments, err := paymentService.HasPaymentForEmail(user.Email)
	if err != nil {
		fmt.Printf("payment lookup on register failed: %v\n", err)
	}
	user.IsSubscriber = hasPayments

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if existing, lookupErr := userRepo.GetByEmail(user.Email); lookupErr == nil {
		// Profile already exists (e.g. provisioned by a name lookup): only
		// update the flag, and only when the derived value differs.
		if existing.IsSubscriber != hasPayments {
			if err := userRepo.SetSubscriber(existing.ID, hasPayments); err != nil {
				fmt.Printf("subscriber update on register failed: %v\n", err)
			}
			nameResolver.Invalidate(existing.ID)
		}
		fm := fiber.Map{
			"type":    "error",
			"message": "Este email já está cadastrado",
		}
		return flash.WithError(c, fm).Redirect("/register")
	} else if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", lookupErr),
		}
		return flash.WithError(c, fm).Redirect("/register")
	}

	if err := userRepo.Create(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}

		return flash.WithError(c, fm).Redirect("/register")
	}
	nameResolver.Invalidate(user.ID)

	fm := fiber.Map{
		"type":    "success",
		"message": "Cadastro concluído! Faça login para continuar.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleForgotPassword(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Render("auth/forgot_password", fiber.Map{
			"Title": "Recuperar senha",
			"Flash": flash.Get(c),
			"csrf":  csrfToken(c),
		})
	}

	email := c.FormValue("email")
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	// Always report success so the form does not leak which emails exist.
	fm := fiber.Map{
		"type":    "success",
		"message": "Se o email existir, enviamos um link de recuperação.",
	}

	user, err := userRepo.GetByEmail(email)
	if err != nil {
		return flash.WithSuccess(c, fm).Redirect("/forgot-password")
	}

	if err := user.GenerateResetToken(); err != nil {
		return flash.WithSuccess(c, fm).Redirect("/forgot-password")
	}
	if err := userRepo.Update(user); err != nil {
		return flash.WithSuccess(c, fm).Redirect("/forgot-password")
	}

	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:"+env.GetEnv("APP_PORT", "4000"))
	link := fmt.Sprintf("%s/reset-password?token=%s", base, user.ResetToken)
	body := fmt.Sprintf("<p>Olá %s,</p><p>Use o link abaixo para redefinir sua senha:</p><p><a href=%q>%s</a></p>", user.Name, link, link)
	if err := mail.SendMail(user.Email, "Redefinição de senha", body); err != nil {
		fmt.Printf("reset mail to %s failed: %v\n", user.Email, err)
	}

	return flash.WithSuccess(c, fm).Redirect("/forgot-password")
}

func HandleResetPassword(c *fiber.Ctx) error {
	token := c.Query("token", c.FormValue("token"))
	if token == "" {
		fm := fiber.Map{"type": "error", "message": "Token de recuperação ausente"}
		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	if c.Method() != fiber.MethodPost {
		return c.Render("auth/reset_password", fiber.Map{
			"Title": "Nova senha",
			"Token": token,
			"Flash": flash.Get(c),
			"csrf":  csrfToken(c),
		})
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByResetToken(token)
	if err != nil || !user.IsResetTokenValid(token) {
		fm := fiber.Map{"type": "error", "message": "Token inválido ou expirado"}
		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	password := c.FormValue("password")
	if len(password) < 6 {
		fm := fiber.Map{"type": "error", "message": "A senha deve ter pelo menos 6 caracteres"}
		return flash.WithError(c, fm).Redirect("/reset-password?token=" + token)
	}

	if err := user.SetPassword(password); err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível salvar a nova senha"}
		return flash.WithError(c, fm).Redirect("/forgot-password")
	}
	user.ClearResetToken()
	if err := userRepo.Update(user); err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível salvar a nova senha"}
		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	fm := fiber.Map{"type": "success", "message": "Senha redefinida! Faça login."}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

// createLoginSession stores the authenticated identity in the session store.
func createLoginSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_EMAIL, user.Email)
	sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)
	sess.Set(USER_IS_SUBSCRIBER, user.IsSubscriber)

	return sess.Save()
}
