// Package locale provides the user-facing strings for edgelogin.
//
// Every string shown by a screen or the header is looked up by a typed [Key];
// nothing outside this package embeds literal display text. Templates use
// printf-style positional substitution compatible with the wallet locale files:
// "%s" consumes the next argument and "%1$s" names an argument by position.
//
// Key types:
//   - [Key] identifies a message
//   - [Catalog] resolves keys for a negotiated language
//
// The shape of every table (all keys present, placeholder arity as declared in
// the key list) is checked by [Validate]; the bundled en-US table is validated
// at package initialization.
package locale

// Key identifies a localized message.
type Key string

// Message keys. The trailing comment on keys with placeholders documents the
// expected arguments.
const (
	KeyAppNameDefault   Key = "app_name_default"
	KeyLoginButton      Key = "login_button"
	KeyUsername         Key = "username"
	KeyPassword         Key = "password"
	KeyConfirmPassword  Key = "confirm_password"
	KeyPin              Key = "pin"
	KeyBack             Key = "back"
	KeyNext             Key = "next_label"
	KeySkip             Key = "skip_button"
	KeyDone             Key = "done"
	KeyExit             Key = "exit"
	KeyExitPin          Key = "exit_pin"
	KeySubmit           Key = "submit"
	KeySave             Key = "save"
	KeyCancel           Key = "cancel"
	KeyDelete           Key = "delete"
	KeyTryAgain         Key = "try_again"
	KeyForgotPassword   Key = "forgot_password"
	KeyCreateAnAccount  Key = "create_an_account"
	KeyLoginWithPIN     Key = "login_with_pin"
	KeyLoginWithPass    Key = "login_with_password"
	KeyChooseUser       Key = "choose_user"
	KeyDeleteAccount    Key = "delete_account"
	KeyDeleteUserOnDev  Key = "delete_username_account" // username
	KeyRecoveryToken    Key = "recovery_token"
	KeyInitiateRecovery Key = "initiate_password_recovery"

	KeyPasswordRequirements Key = "password_requirements"
	KeyMustTenCharacters    Key = "must_ten_characters"
	KeyMustOneLowercase     Key = "must_one_lowercase"
	KeyMustOneUppercase     Key = "must_one_uppercase"
	KeyMustOneNumber        Key = "must_one_number"

	KeyChooseTitleUsername   Key = "choose_title_username"
	KeyChooseTitlePassword   Key = "choose_title_password"
	KeyChooseTitlePin        Key = "choose_title_pin"
	KeyCreateYourAccount     Key = "create_your_account"
	KeyAccountConfirmation   Key = "account_confirmation"
	KeyOTPHeader             Key = "otp_header"
	KeyRecoveryQuestionsHdr  Key = "recovery_questions_header"
	KeyPasswordRecovery      Key = "password_recovery"
	KeySaveRecoveryToken     Key = "save_recovery_token"
	KeyChangePassword        Key = "change_password"
	KeyChangePin             Key = "change_pin"
	KeyPasswordChanged       Key = "password_changed"
	KeyPinChanged            Key = "pin_changed"
	KeyRecoverySuccessful    Key = "recovery_successful"
	KeyRecoverByUsername     Key = "recover_by_username"
	KeyRecoveryByUserError   Key = "recovery_by_username_error"
	KeyYourAnswerLabel       Key = "your_answer_label"
	KeyAnswerCaseSensitive   Key = "answer_case_sensitive"
	KeyAnswersFourCharacters Key = "answers_four_chanracters"
	KeySecretTooLong         Key = "secret_too_long"
	KeyRecoveryError         Key = "recovery_error"
	KeyChooseRecoveryQ       Key = "choose_recovery_question"
	KeyRecoveryTokenIs       Key = "recovery_token_is" // token

	KeyWelcome             Key = "welcome"                     // app name
	KeyWelcomeOneTitle     Key = "welcome_advantage_one_title" // app name
	KeyWelcomeOneLine1     Key = "welcome_advantage_one_description_line1"
	KeyWelcomeOneLine2     Key = "welcome_advantage_one_description_line2"
	KeyGetStarted          Key = "get_started"
	KeyUsernameDesc        Key = "username_desc" // app name
	KeyPasswordDesc        Key = "password_desc"
	KeyPinDesc             Key = "pin_desc"
	KeyAlmostDone          Key = "almost_done"
	KeyWarningMessage      Key = "warning_message"
	KeyEncryptingWallet    Key = "encrypting_wallet"
	KeyCheckingUsername    Key = "checking_username"
	KeyLoggingIn           Key = "logging_in"
	KeyPinNotEnabled       Key = "pin_not_enabled"
	KeyInvalidPin          Key = "invalid_pin"
	KeyPinNetworkError     Key = "pin_network_error_full_password"
	KeyAccountLockedFor    Key = "account_locked_for" // seconds
	KeyPasswordError       Key = "password_error"
	KeyInvalidPassword     Key = "invalid_password"
	KeyConfirmPasswordErr  Key = "confirm_password_error"
	KeyUsername3CharsError Key = "username_3_characters_error"
	KeyUsernameASCIIError  Key = "username_ascii_error"
	KeyUsernameExistsError Key = "username_exists_error"
	KeyFourDigitPinError   Key = "four_digit_pin_error"
	KeyCreateAccountErrHdr Key = "create_account_error_title"
	KeyCreateAccountErrMsg Key = "create_account_error_message"
	KeyNetworkError        Key = "network_error"

	KeyOTPSceneHeader2FA Key = "otp_scene_header_2fa"
	KeyOTPSceneApprove   Key = "otp_scene_approve"
	KeyOTPSceneWait      Key = "otp_scene_wait" // reset date
	KeyOTPSceneRetrying  Key = "otp_scene_retrying"
	KeyOTPBackupCodeHdr  Key = "otp_backup_code_modal_title"
	KeyBackupKeyWrong    Key = "backup_key_incorrect"
	KeyOTPVoucher        Key = "otp_voucher" // voucher id

	KeyRecoveryQuestion1  Key = "change_recovery_question1"
	KeyRecoveryQuestion2  Key = "change_recovery_question2"
	KeyRecoveryQuestion3  Key = "change_recovery_question3"
	KeyRecoveryQuestion4  Key = "change_recovery_question4"
	KeyRecoveryQuestion5  Key = "change_recovery_question5"
	KeyRecoveryQuestion6  Key = "change_recovery_question6"
	KeyRecoveryQuestion7  Key = "change_recovery_question7"
	KeyRecoveryQuestion8  Key = "change_recovery_question8"
	KeyRecoveryQuestion9  Key = "change_recovery_question9"
	KeyRecoveryQuestion10 Key = "change_recovery_question10"
	KeyRecoveryQuestion11 Key = "change_recovery_question11"
	KeyRecoveryQuestion12 Key = "change_recovery_question12"
	KeyRecoveryQuestion13 Key = "change_recovery_question13"
)

// RecoveryQuestions lists the selectable password recovery questions in
// display order.
var RecoveryQuestions = []Key{
	KeyRecoveryQuestion1, KeyRecoveryQuestion2, KeyRecoveryQuestion3,
	KeyRecoveryQuestion4, KeyRecoveryQuestion5, KeyRecoveryQuestion6,
	KeyRecoveryQuestion7, KeyRecoveryQuestion8, KeyRecoveryQuestion9,
	KeyRecoveryQuestion10, KeyRecoveryQuestion11, KeyRecoveryQuestion12,
	KeyRecoveryQuestion13,
}

// arity declares every known key and the number of arguments its template
// consumes. Tables are validated against this shape.
var arity = map[Key]int{
	KeyAppNameDefault: 0, KeyLoginButton: 0, KeyUsername: 0, KeyPassword: 0,
	KeyConfirmPassword: 0, KeyPin: 0, KeyBack: 0, KeyNext: 0, KeySkip: 0,
	KeyDone: 0, KeyExit: 0, KeyExitPin: 0, KeySubmit: 0, KeySave: 0,
	KeyCancel: 0, KeyDelete: 0, KeyTryAgain: 0, KeyForgotPassword: 0,
	KeyCreateAnAccount: 0, KeyLoginWithPIN: 0, KeyLoginWithPass: 0,
	KeyChooseUser: 0, KeyDeleteAccount: 0, KeyDeleteUserOnDev: 1,
	KeyRecoveryToken: 0, KeyInitiateRecovery: 0,

	KeyPasswordRequirements: 0, KeyMustTenCharacters: 0, KeyMustOneLowercase: 0,
	KeyMustOneUppercase: 0, KeyMustOneNumber: 0,

	KeyChooseTitleUsername: 0, KeyChooseTitlePassword: 0, KeyChooseTitlePin: 0,
	KeyCreateYourAccount: 0, KeyAccountConfirmation: 0, KeyOTPHeader: 0,
	KeyRecoveryQuestionsHdr: 0, KeyPasswordRecovery: 0, KeySaveRecoveryToken: 0,
	KeyChangePassword: 0, KeyChangePin: 0, KeyPasswordChanged: 0,
	KeyPinChanged: 0, KeyRecoverySuccessful: 0, KeyRecoverByUsername: 0,
	KeyRecoveryByUserError: 0, KeyYourAnswerLabel: 0, KeyAnswerCaseSensitive: 0,
	KeyAnswersFourCharacters: 0, KeySecretTooLong: 0, KeyRecoveryError: 0, KeyChooseRecoveryQ: 0,
	KeyRecoveryTokenIs: 1,

	KeyWelcome: 1, KeyWelcomeOneTitle: 1, KeyWelcomeOneLine1: 0,
	KeyWelcomeOneLine2: 0, KeyGetStarted: 0, KeyUsernameDesc: 1,
	KeyPasswordDesc: 0, KeyPinDesc: 0, KeyAlmostDone: 0, KeyWarningMessage: 0,
	KeyEncryptingWallet: 0, KeyCheckingUsername: 0, KeyLoggingIn: 0,
	KeyPinNotEnabled: 0, KeyInvalidPin: 0, KeyPinNetworkError: 0,
	KeyAccountLockedFor: 1, KeyPasswordError: 0, KeyInvalidPassword: 0,
	KeyConfirmPasswordErr: 0, KeyUsername3CharsError: 0,
	KeyUsernameASCIIError: 0, KeyUsernameExistsError: 0,
	KeyFourDigitPinError: 0, KeyCreateAccountErrHdr: 0,
	KeyCreateAccountErrMsg: 0, KeyNetworkError: 0,

	KeyOTPSceneHeader2FA: 0, KeyOTPSceneApprove: 0, KeyOTPSceneWait: 1,
	KeyOTPSceneRetrying: 0, KeyOTPBackupCodeHdr: 0, KeyBackupKeyWrong: 0,
	KeyOTPVoucher: 1,

	KeyRecoveryQuestion1: 0, KeyRecoveryQuestion2: 0, KeyRecoveryQuestion3: 0,
	KeyRecoveryQuestion4: 0, KeyRecoveryQuestion5: 0, KeyRecoveryQuestion6: 0,
	KeyRecoveryQuestion7: 0, KeyRecoveryQuestion8: 0, KeyRecoveryQuestion9: 0,
	KeyRecoveryQuestion10: 0, KeyRecoveryQuestion11: 0,
	KeyRecoveryQuestion12: 0, KeyRecoveryQuestion13: 0,
}

// Known reports whether k is a declared message key.
func Known(k Key) bool {
	_, ok := arity[k]
	return ok
}

// Arity returns the number of arguments the template for k consumes, or -1
// for an undeclared key.
func Arity(k Key) int {
	n, ok := arity[k]
	if !ok {
		return -1
	}
	return n
}
