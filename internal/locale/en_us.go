package locale

var enUS = map[Key]string{
	KeyAppNameDefault:   "Edge",
	KeyLoginButton:      "Login",
	KeyUsername:         "Username",
	KeyPassword:         "Password",
	KeyConfirmPassword:  "Confirm Password",
	KeyPin:              "PIN",
	KeyBack:             "Back",
	KeyNext:             "Next",
	KeySkip:             "Skip",
	KeyDone:             "Done",
	KeyExit:             "Exit",
	KeyExitPin:          "Exit PIN",
	KeySubmit:           "Submit",
	KeySave:             "Save",
	KeyCancel:           "Cancel",
	KeyDelete:           "Delete",
	KeyTryAgain:         "Try Again",
	KeyForgotPassword:   "Forgot Password",
	KeyCreateAnAccount:  "Create an Account",
	KeyLoginWithPIN:     "Login with PIN",
	KeyLoginWithPass:    "Login with password",
	KeyChooseUser:       "Choose user",
	KeyDeleteAccount:    "Delete Account?",
	KeyDeleteUserOnDev:  "Delete %1$s on this device? This will disable access via PIN. If 2FA is enabled on this account, this device will not be able to login without a 2FA reset which takes 7 days.",
	KeyRecoveryToken:    "Recovery Token",
	KeyInitiateRecovery: "Enter Recovery Token. You can find the recovery token in an email that was sent from yourself if password recovery was setup prior to losing access.",

	KeyPasswordRequirements: "Password Requirements",
	KeyMustTenCharacters:    "Must have at least 10 characters",
	KeyMustOneLowercase:     "Must have at least 1 lowercase letter",
	KeyMustOneUppercase:     "Must have at least 1 uppercase letter",
	KeyMustOneNumber:        "Must have at least 1 number",

	KeyChooseTitleUsername:   "Choose Username",
	KeyChooseTitlePassword:   "Set Password",
	KeyChooseTitlePin:        "Set PIN",
	KeyCreateYourAccount:     "Creating Your Account",
	KeyAccountConfirmation:   "Account Confirmation",
	KeyOTPHeader:             "Two Factor Authentication",
	KeyRecoveryQuestionsHdr:  "Recovery Questions",
	KeyPasswordRecovery:      "Password Recovery",
	KeySaveRecoveryToken:     "Save Recovery Token",
	KeyChangePassword:        "Change Password",
	KeyChangePin:             "Change PIN",
	KeyPasswordChanged:       "Password Changed",
	KeyPinChanged:            "PIN Changed",
	KeyRecoverySuccessful:    "Recovery successful! Please change your password and PIN.",
	KeyRecoverByUsername:     "Please enter the username of the account you want to recover.",
	KeyRecoveryByUserError:   "Invalid recovery link or username does not exist",
	KeyYourAnswerLabel:       "Your Answer",
	KeyAnswerCaseSensitive:   "Answers are case sensitive",
	KeyAnswersFourCharacters: "Answers should be minimum of 4 characters",
	KeySecretTooLong:         "Too long. Use at most 72 bytes.",
	KeyRecoveryError:         "The answers you provided are incorrect.",
	KeyChooseRecoveryQ:       "Choose recovery question",
	KeyRecoveryTokenIs:       "Your recovery token is %s. Store it somewhere safe; it is required to recover your account.",

	KeyWelcome:             "Welcome to %s!",
	KeyWelcomeOneTitle:     "Getting started with %s is easy",
	KeyWelcomeOneLine1:     "You’ll choose a username and password.",
	KeyWelcomeOneLine2:     "We’ll use these to encrypt your account.",
	KeyGetStarted:          "Get Started",
	KeyUsernameDesc:        "Your username will be required to sign in to your %s account on this and other devices.",
	KeyPasswordDesc:        "The password is used to log in and change sensitive settings. Be sure to write it down!",
	KeyPinDesc:             "Your PIN is a 4 digit code used to quickly log back into your account.",
	KeyAlmostDone:          "Almost done! Let's write down your account information",
	KeyWarningMessage:      "If you lose your account information, you’ll lose access to your funds permanently.",
	KeyEncryptingWallet:    "Encrypting wallet...",
	KeyCheckingUsername:    "Checking username...",
	KeyLoggingIn:           "Logging in...",
	KeyPinNotEnabled:       "PIN is not enabled for this account",
	KeyInvalidPin:          "Invalid PIN",
	KeyPinNetworkError:     "You may still log into your account with username and password.",
	KeyAccountLockedFor:    "Account locked for %1$s more seconds",
	KeyPasswordError:       "Password doesn't meet requirements",
	KeyInvalidPassword:     "Invalid username or password",
	KeyConfirmPasswordErr:  "Does not match password",
	KeyUsername3CharsError: "Minimum 3 characters",
	KeyUsernameASCIIError:  "Must only be ascii characters",
	KeyUsernameExistsError: "Username already exists",
	KeyFourDigitPinError:   "PIN must be four digits",
	KeyCreateAccountErrHdr: "Error occurred creating account",
	KeyCreateAccountErrMsg: "An error occurred creating your account. This may have been due to a slow network connection or network interruption. Please retry and if you receive another error that the account already exists, please restart the app and login with your username and password.",
	KeyNetworkError:        "Unable to reach the login server. Check your connection and try again.",

	KeyOTPSceneHeader2FA: "This device cannot log in because it does not have the right 2-factor code",
	KeyOTPSceneApprove:   "Approve this request from another logged-in device",
	KeyOTPSceneWait:      "Wait until %s when this device will be automatically authorized to log in",
	KeyOTPSceneRetrying:  "Retrying login...",
	KeyOTPBackupCodeHdr:  "Enter Backup Code",
	KeyBackupKeyWrong:    "Backup Key was incorrect",
	KeyOTPVoucher:        "Request ID: %s",

	KeyRecoveryQuestion1:  "What is the anniversary date with your first spouse?",
	KeyRecoveryQuestion2:  "What is the birthdate of the maid/matron of honor at your wedding?",
	KeyRecoveryQuestion3:  "What is the birthdate of your childhood best friend?",
	KeyRecoveryQuestion4:  "What was your favorite brand of clothing in high school?",
	KeyRecoveryQuestion5:  "What is the birthdate of your favorite grand parent?",
	KeyRecoveryQuestion6:  "What is the birthdate of your favorite niece or nephew?",
	KeyRecoveryQuestion7:  "What was the first address you remember living in?",
	KeyRecoveryQuestion8:  "What was your address in college?",
	KeyRecoveryQuestion9:  "What was your maternal grandfather's first and last name?",
	KeyRecoveryQuestion10: "What was your maternal grandmother's first and last name?",
	KeyRecoveryQuestion11: "What is the street address of the first home you remember?",
	KeyRecoveryQuestion12: "Name the make, model, and year of your dream car?",
	KeyRecoveryQuestion13: "Who is your childhood sports hero?",
}
