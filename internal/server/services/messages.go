package services

// Messages returned to clients alongside successful operations or typed errors.
const (
	MsgUserNotFound              = "user not found"
	MsgRegisterSuccess           = "register success"
	MsgLoginSuccess              = "login success"
	MsgLogoutSuccess             = "logout success"
	MsgRefreshTokenSuccess       = "refresh token success"
	MsgEmailVerifySuccess        = "email verify success"
	MsgEmailAlreadyVerified      = "email already verified before"
	MsgResendEmailVerifySuccess  = "resend email verify success"
	MsgCheckEmailToResetPassword = "check email to reset password"
	MsgForgotPasswordTokenValid  = "verify forgot password token success"
	MsgResetPasswordSuccess      = "reset password success"
	MsgChangePasswordSuccess     = "change password success"
	MsgGetMeSuccess              = "get me success"
	MsgUpdateMeSuccess           = "update me success"
	MsgGetProfileSuccess         = "get profile success"
	MsgFollowSuccess             = "follow success"
	MsgUnfollowSuccess           = "unfollow success"
	MsgOldPasswordMismatch       = "old password not match"
	MsgCannotFollowSelf          = "cannot follow yourself"
)
